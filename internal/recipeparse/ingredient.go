package recipeparse

import (
	"regexp"
	"strings"

	"mcp-cocktail-recipes/internal/models"
)

var (
	bulletPrefixRe = regexp.MustCompile(`^\s*(?:[-•*+▪◦]|\d+[.)])\s+`)
	quantityTokRe  = regexp.MustCompile(`^(?:\d+(?:\.\d+)?(?:-\d+(?:\.\d+)?)?|\.\d+|\d+/\d+)$`)
	wholeTokRe     = regexp.MustCompile(`^\d+$`)
	fractionTokRe  = regexp.MustCompile(`^\d+/\d+$`)
	gluedUnitRe    = regexp.MustCompile(`^(\d+(?:\.\d+)?)([a-zA-Z]+\.?)$`)
	decimalCommaRe = regexp.MustCompile(`^(\d+),(\d+)$`)
	trailingNoteRe = regexp.MustCompile(`\s*\(([^()]*)\)\s*$`)
)

var vulgarFractions = map[rune]string{
	'½': "1/2", '¼': "1/4", '¾': "3/4",
	'⅓': "1/3", '⅔': "2/3",
	'⅛': "1/8", '⅜': "3/8", '⅝': "5/8", '⅞': "7/8",
}

// knownUnits maps unit spellings to the form stored on an ingredient.
var knownUnits = map[string]string{
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"ml": "ml", "cl": "cl", "l": "l", "liter": "l", "litre": "l",
	"tsp": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"tbsp": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"cup": "cup", "cups": "cups",
	"dash": "dash", "dashes": "dashes",
	"drop": "drop", "drops": "drops",
	"slice": "slice", "slices": "slices",
	"wedge": "wedge", "wedges": "wedges",
	"splash": "splash", "splashes": "splashes",
	"barspoon": "barspoon", "barspoons": "barspoons", "bsp": "barspoon",
	"part": "part", "parts": "parts",
	"pinch": "pinch", "pinches": "pinches",
	"sprig": "sprig", "sprigs": "sprigs",
	"leaf": "leaf", "leaves": "leaves",
	"twist": "twist", "twists": "twists",
	"wheel": "wheel", "wheels": "wheels",
	"piece": "piece", "pieces": "pieces",
	"scoop": "scoop", "scoops": "scoops",
	"shot": "shot", "shots": "shots",
	"jigger": "jigger", "jiggers": "jiggers",
	"can": "can", "cans": "cans",
	"bottle": "bottle", "bottles": "bottles",
	"g": "g", "gram": "g", "grams": "g",
}

// lookupUnit reports the stored spelling of tok when it is a known unit.
func lookupUnit(tok string) (string, bool) {
	u, ok := knownUnits[strings.TrimSuffix(strings.ToLower(tok), ".")]
	return u, ok
}

// ParseIngredientLine splits a free-text ingredient such as
// "- 1 1/2 oz fresh lime juice (strained)" into quantity, unit and item.
// Lines without a leading amount keep the whole text as the item.
func ParseIngredientLine(line string) models.Ingredient {
	text := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
	text = expandVulgarFractions(text)

	var ing models.Ingredient
	if m := trailingNoteRe.FindStringSubmatchIndex(text); m != nil && m[0] > 0 {
		ing.Notes = strings.TrimSpace(text[m[2]:m[3]])
		text = strings.TrimSpace(text[:m[0]])
	}

	tokens := strings.Fields(text)
	if len(tokens) > 0 {
		if m := gluedUnitRe.FindStringSubmatch(tokens[0]); m != nil {
			if _, ok := lookupUnit(m[2]); ok {
				tokens = append([]string{m[1], m[2]}, tokens[1:]...)
			}
		}
		if m := decimalCommaRe.FindStringSubmatch(tokens[0]); m != nil {
			tokens[0] = m[1] + "." + m[2]
		}
	}

	i := 0
	switch {
	case i < len(tokens) && quantityTokRe.MatchString(tokens[i]):
		ing.Quantity = tokens[i]
		i++
		if wholeTokRe.MatchString(ing.Quantity) && i < len(tokens) && fractionTokRe.MatchString(tokens[i]) {
			ing.Quantity += " " + tokens[i]
			i++
		}
	case i+1 < len(tokens) && isArticle(tokens[i]):
		if _, ok := lookupUnit(tokens[i+1]); ok {
			ing.Quantity = strings.ToLower(tokens[i])
			i++
		}
	}

	if ing.Quantity != "" && i < len(tokens) {
		switch {
		case i+1 < len(tokens) && isFluid(tokens[i]) && strings.HasPrefix(strings.ToLower(tokens[i+1]), "oz"):
			ing.Unit = "fl oz"
			i += 2
		default:
			if u, ok := lookupUnit(tokens[i]); ok {
				ing.Unit = u
				i++
			}
		}
		if i < len(tokens)-1 && strings.EqualFold(tokens[i], "of") {
			i++
		}
	}

	ing.Item = strings.TrimSpace(strings.Join(tokens[i:], " "))
	return ing
}

func isArticle(tok string) bool {
	switch strings.ToLower(tok) {
	case "a", "an":
		return true
	}
	return false
}

func isFluid(tok string) bool {
	switch strings.ToLower(tok) {
	case "fl", "fl.":
		return true
	}
	return false
}

// expandVulgarFractions rewrites "1½" as "1 1/2" and "¾" as "3/4".
func expandVulgarFractions(s string) string {
	if !strings.ContainsAny(s, "½¼¾⅓⅔⅛⅜⅝⅞") {
		return s
	}
	var b strings.Builder
	var prev rune
	for _, r := range s {
		if frac, ok := vulgarFractions[r]; ok {
			if prev >= '0' && prev <= '9' {
				b.WriteByte(' ')
			}
			b.WriteString(frac)
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}
