package spl

import (
	"regexp"
	"strconv"
	"strings"
)

// ingredientRoles maps ingredient class codes to roles. Codes not listed
// (INGR, CNTM, ADTV, COLR, absent) are RoleOther.
var ingredientRoles = map[string]Role{
	"ACTIB": RoleActive, // active ingredient, basis of strength
	"ACTIM": RoleActive, // active moiety is basis of strength
	"ACTIR": RoleActive, // reference substance is basis of strength
	"ACTI":  RoleActive,
	"IACT":  RoleInactive,
}

// potencyPattern matches homeopathic dilution units such as [hp_X].
var potencyPattern = regexp.MustCompile(`^\[hp_([XCMQ])\]$`)

// RoleOf maps an ingredient class code to a role.
func RoleOf(classCode string) Role {
	if r, ok := ingredientRoles[strings.ToUpper(strings.TrimSpace(classCode))]; ok {
		return r
	}
	return RoleOther
}

// extractIngredients reads the ingredients of one product entity in
// document order. Every ingredient element is emitted, even one with
// neither a name nor a UNII.
func extractIngredients(e *productElement) []Ingredient {
	out := make([]Ingredient, 0, len(e.Ingredients)+len(e.ActiveIngredients)+len(e.InactiveIngredients))
	for _, ing := range e.Ingredients {
		out = append(out, buildIngredient(RoleOf(ing.ClassCode), ing.Quantity, ing.IngredientSubstance))
	}
	for _, ing := range e.ActiveIngredients {
		out = append(out, buildIngredient(RoleActive, ing.Quantity, ing.ActiveIngredientSubstance))
	}
	for _, ing := range e.InactiveIngredients {
		out = append(out, buildIngredient(RoleInactive, ing.Quantity, ing.InactiveIngredientSubstance))
	}
	return out
}

func buildIngredient(role Role, qty *ratioElement, sub *substanceElement) Ingredient {
	ing := Ingredient{Role: role, Strength: parseStrength(qty)}
	if sub != nil {
		ing.Name = nullable(markupText(sub.Name, true))
		ing.UNII = substanceUNII(sub)
	}

	if potency := potencyOf(qty); potency != nil {
		ing.Homeopathic.Potency = potency
		ing.Homeopathic.SourceMaterial = sourceMaterial(sub)
	}
	return ing
}

// substanceUNII resolves the substance code through the UNII code system.
// Codes from any other system are ignored.
func substanceUNII(sub *substanceElement) *string {
	if sub.Code == nil {
		return nil
	}
	id := Resolve(sub.Code.CodeSystem, sub.Code.Code)
	if id.Kind != KindUNII || !id.Valid() {
		return nil
	}
	return &id.Value
}

// parseStrength copies a quantity ratio. Each side is read only when its
// element is present, so a numerator alone never yields a denominator.
func parseStrength(qty *ratioElement) Strength {
	var s Strength
	if qty == nil {
		return s
	}
	if n := qty.Numerator; n != nil {
		s.NumeratorValue = parseNumber(n.Value)
		s.NumeratorUnit = nullable(n.Unit)
	}
	if d := qty.Denominator; d != nil {
		s.DenominatorValue = parseNumber(d.Value)
		s.DenominatorUnit = nullable(d.Unit)
	}
	return s
}

// potencyOf returns "<value><scale>" for a numerator expressed in a
// homeopathic dilution unit, e.g. 6 [hp_X] -> "6X".
func potencyOf(qty *ratioElement) *string {
	if qty == nil || qty.Numerator == nil {
		return nil
	}
	m := potencyPattern.FindStringSubmatch(strings.TrimSpace(qty.Numerator.Unit))
	if m == nil {
		return nil
	}
	value := strings.TrimSpace(qty.Numerator.Value)
	if value == "" {
		return nil
	}
	potency := value + m[1]
	return &potency
}

func sourceMaterial(sub *substanceElement) *string {
	if sub == nil {
		return nil
	}
	for _, am := range sub.ActiveMoiety {
		if am.ActiveMoiety == nil {
			continue
		}
		if name := nullable(markupText(am.ActiveMoiety.Name, true)); name != nil {
			return name
		}
	}
	return nil
}

func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
