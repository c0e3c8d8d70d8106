package recipeparse

import (
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"mcp-cocktail-recipes/internal/models"
)

var (
	headingRe       = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*#*$`)
	numberedTitleRe = regexp.MustCompile(`^(\d+)[.)]\s+(.+)$`)
	boldTitleRe     = regexp.MustCompile(`^\*\*([^*]+)\*\*:?$`)
	ruleRe          = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})$`)
	listItemRe      = regexp.MustCompile(`^(?:[-•*+▪◦]|(\d+)[.)])\s+(.*)$`)
	titleNumberRe   = regexp.MustCompile(`^\d+[.)]\s+`)
	leadInRe        = regexp.MustCompile(`(?i)^(?:(?:sure|okay|ok|of course|absolutely|certainly|great)[!,.]*\s+)?(?:(?:here(?:'s|’s| is)|this is|try)\s+)?(?:(?:an?|the|my|our)\s+)?(?:(?:classic|simple|easy|quick|delicious|refreshing|perfect|tasty)\s+)?`)
	recipeTailRe    = regexp.MustCompile(`(?i)\s*(?:cocktail\s+)?recipe(?:\s+for\s+you)?\s*[.!:]*$`)
	htmlBlockRe     = regexp.MustCompile(`(?i)<(?:h[1-6]|ul|ol|li|p|br|div|strong|table)\b[^>]*>`)
)

const (
	maxTitleLen   = 80
	maxTitleWords = 8

	untitledName = "Untitled Cocktail"
)

type mdSection int

const (
	sectionNone mdSection = iota
	sectionIngredients
	sectionInstructions
)

type markdownParser struct {
	lines   []string
	pos     int
	recipes []models.Recipe
	current models.Recipe
	section mdSection
	// value field waiting for its value on the next line
	pending string
	// a blank line was seen since the last list item
	gap bool
	// last prose line seen before a name or body, used to name a bare body
	prose    string
	untitled int
}

// ParseMarkdown reads recipes written as headed markdown blocks with
// ingredient bullets and numbered steps. It is a best-effort lexer: lines
// that fit no rule are ignored.
func ParseMarkdown(raw string) []models.Recipe {
	if htmlBlockRe.MatchString(raw) {
		if converted, err := htmltomarkdown.ConvertString(raw); err == nil {
			raw = converted
		}
	}

	p := &markdownParser{lines: strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")}
	for i := range p.lines {
		p.lines[i] = strings.TrimSpace(p.lines[i])
	}
	for p.pos = 0; p.pos < len(p.lines); p.pos++ {
		p.line(p.lines[p.pos])
	}
	p.flush()
	return dedupeRecipes(p.recipes)
}

func (p *markdownParser) line(line string) {
	switch {
	case line == "":
		if p.sectionHasItems() {
			p.gap = true
		}
		return
	case strings.HasPrefix(line, "```"):
		return
	case ruleRe.MatchString(line):
		p.flush()
		return
	}

	if field, rest, ok := sectionMarker(line); ok {
		p.marker(field, rest)
		return
	}
	if p.pending != "" {
		field := p.pending
		p.pending = ""
		p.marker(field, strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, "")))
		return
	}

	switch p.section {
	case sectionIngredients:
		if p.ingredientLine(line) {
			return
		}
	case sectionInstructions:
		if p.instructionLine(line) {
			return
		}
	}
	p.section = sectionNone
	p.gap = false
	if p.implicitIngredient(line) {
		return
	}
	p.titleOrDescription(line)
}

// implicitIngredient accepts measured bullets that follow a title when the
// "Ingredients:" marker is missing.
func (p *markdownParser) implicitIngredient(line string) bool {
	if p.current.Name == "" || len(p.current.Instructions) > 0 {
		return false
	}
	m := listItemRe.FindStringSubmatch(line)
	if m == nil || m[1] != "" {
		return false
	}
	ing := ParseIngredientLine(line)
	if ing.Quantity == "" {
		return false
	}
	p.current.Ingredients = append(p.current.Ingredients, ing)
	p.section = sectionIngredients
	return true
}

func (p *markdownParser) sectionHasItems() bool {
	switch p.section {
	case sectionIngredients:
		return len(p.current.Ingredients) > 0
	case sectionInstructions:
		return len(p.current.Instructions) > 0
	}
	return false
}

func (p *markdownParser) ingredientLine(line string) bool {
	if m := listItemRe.FindStringSubmatch(line); m != nil {
		if p.gap && m[1] != "" {
			// a numbered line after a blank is the next recipe's title
			return false
		}
		p.gap = false
		p.current.Ingredients = append(p.current.Ingredients, ParseIngredientLine(line))
		return true
	}
	if p.gap {
		return false
	}
	if ing := ParseIngredientLine(line); ing.Quantity != "" {
		p.current.Ingredients = append(p.current.Ingredients, ing)
		return true
	}
	return false
}

func (p *markdownParser) instructionLine(line string) bool {
	m := listItemRe.FindStringSubmatch(line)
	if m == nil && (headingRe.MatchString(line) || boldTitleRe.MatchString(line)) {
		return false
	}
	if p.gap {
		if m == nil || m[1] == "" {
			return false
		}
		// keep going only when the numbering continues the steps
		n, err := strconv.Atoi(m[1])
		if err != nil || n != len(p.current.Instructions)+1 {
			return false
		}
		// "3. Mojito" followed by its own Ingredients: is a title, not step 3
		if p.markerAhead() {
			return false
		}
	}
	p.gap = false
	if m != nil {
		p.current.Instructions = append(p.current.Instructions, m[2])
	} else {
		p.current.Instructions = append(p.current.Instructions, stepNumberRe.ReplaceAllString(line, ""))
	}
	return true
}

// markerAhead reports whether an ingredients or instructions marker follows
// the current line before the next blank line or numbered item.
func (p *markdownParser) markerAhead() bool {
	for _, next := range p.lines[p.pos+1:] {
		if next == "" {
			return false
		}
		if field, _, ok := sectionMarker(next); ok {
			return field == FieldIngredients || field == FieldInstructions
		}
		if m := listItemRe.FindStringSubmatch(next); m != nil && m[1] != "" {
			return false
		}
	}
	return false
}

func (p *markdownParser) marker(field, rest string) {
	p.gap = false
	p.pending = ""
	switch field {
	case FieldIngredients:
		p.section = sectionIngredients
		if rest != "" {
			for _, part := range strings.Split(rest, ",") {
				p.current.Ingredients = append(p.current.Ingredients, ParseIngredientLine(part))
			}
		}
		return
	case FieldInstructions:
		p.section = sectionInstructions
		if rest != "" {
			p.current.Instructions = append(p.current.Instructions, rest)
		}
		return
	}

	p.section = sectionNone
	if rest == "" && field != FieldName {
		p.pending = field
		return
	}
	switch field {
	case FieldName:
		p.startRecipe(rest)
	case FieldDescription:
		p.current.Description = joinText(p.current.Description, rest)
	case FieldGlassware:
		p.current.Glassware = rest
	case FieldGarnish:
		p.current.Garnish = rest
	case FieldTags:
		p.current.Tags = append(p.current.Tags, strings.Split(rest, ",")...)
	}
}

func (p *markdownParser) titleOrDescription(line string) {
	if title, ok := explicitTitle(line); ok {
		p.startRecipe(title)
		return
	}

	if m := listItemRe.FindStringSubmatch(line); m != nil && m[1] == "" {
		// stray bullet outside any section
		return
	}
	text := stripEmphasis(line)
	if text == "" {
		return
	}
	switch {
	case p.hasBody():
		if looksLikeTitle(text) {
			p.startRecipe(text)
		}
	case p.current.Name == "":
		if looksLikeTitle(text) {
			p.current.Name = text
		} else {
			p.prose = text
		}
	default:
		p.current.Description = joinText(p.current.Description, text)
	}
}

func (p *markdownParser) hasBody() bool {
	return len(p.current.Ingredients) > 0 || len(p.current.Instructions) > 0
}

func (p *markdownParser) startRecipe(name string) {
	if p.current.Name != "" || p.hasBody() {
		p.flush()
	}
	p.current.Name = titleNumberRe.ReplaceAllString(stripEmphasis(name), "")
}

func (p *markdownParser) flush() {
	if p.hasBody() {
		if p.current.Name == "" {
			p.current.Name = p.nameFromProse()
		}
		if r, ok := finishRecipe(p.current); ok {
			p.recipes = append(p.recipes, r)
		}
	}
	p.current = models.Recipe{}
	p.section = sectionNone
	p.pending = ""
	p.gap = false
	p.prose = ""
}

// nameFromProse names a body that had no title, using the lead-in sentence
// ("Here's a classic Margarita recipe.") when there is one.
func (p *markdownParser) nameFromProse() string {
	name := recipeTailRe.ReplaceAllString(p.prose, "")
	name = strings.TrimSpace(leadInRe.ReplaceAllString(name, ""))
	name = strings.TrimRight(name, ".!?:, ")
	if looksLikeTitle(name) {
		return name
	}
	p.untitled++
	if p.untitled == 1 {
		return untitledName
	}
	return untitledName + " " + strconv.Itoa(p.untitled)
}

// sectionMarker recognizes lines such as "Ingredients:", "**Method**",
// "### Directions" and "Garnish: lime wheel".
func sectionMarker(line string) (field, rest string, ok bool) {
	label, rest, hasColon := strings.Cut(line, ":")
	decorated := strings.HasPrefix(line, "#") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "_")
	if !hasColon && !decorated && len(strings.Fields(line)) > 2 {
		return "", "", false
	}
	if listItemRe.MatchString(label) && !strings.HasPrefix(label, "**") {
		return "", "", false
	}
	field, ok = CanonicalKey(strings.Trim(label, "#*_ \t"))
	if !ok {
		return "", "", false
	}
	switch field {
	case FieldIngredients, FieldInstructions, FieldGlassware, FieldGarnish, FieldTags, FieldName, FieldDescription:
	default:
		return "", "", false
	}
	if !hasColon && !decorated && field != FieldIngredients && field != FieldInstructions {
		return "", "", false
	}
	return field, strings.TrimSpace(strings.Trim(rest, "*_ \t")), true
}

func explicitTitle(line string) (string, bool) {
	if m := headingRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := boldTitleRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := numberedTitleRe.FindStringSubmatch(line); m != nil && looksLikeTitle(stripEmphasis(m[2])) {
		return m[2], true
	}
	return "", false
}

func looksLikeTitle(s string) bool {
	if s == "" || len(s) > maxTitleLen || len(strings.Fields(s)) > maxTitleWords || strings.HasSuffix(s, ":") {
		return false
	}
	return !strings.ContainsAny(s[len(s)-1:], ".!?")
}

func stripEmphasis(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_#"))
}

func joinText(a, b string) string {
	b = strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func dedupeRecipes(recipes []models.Recipe) []models.Recipe {
	seen := make(map[string]bool, len(recipes))
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	return out
}
