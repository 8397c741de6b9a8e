package damage

import "strings"

// physicalTypes and energyTypes group damage types into the broader tags that
// resistances/weaknesses/immunities can key off of, per §4.6.
var physicalTypes = map[string]bool{"bludgeoning": true, "piercing": true, "slashing": true}
var energyTypes = map[string]bool{"acid": true, "cold": true, "electricity": true, "fire": true, "force": true, "sonic": true}

// damageTypeAliases normalizes common synonyms to their canonical tag.
var damageTypeAliases = map[string]string{
	"lightning": "electricity",
	"pierce":    "piercing",
	"slash":     "slashing",
	"bludgeon":  "bludgeoning",
}

// NormalizeDamageType resolves a damage type string through the alias map.
func NormalizeDamageType(damageType string) string {
	t := strings.ToLower(strings.TrimSpace(damageType))
	if alias, ok := damageTypeAliases[t]; ok {
		return alias
	}
	return t
}

// TagSet computes the full set of tags a damage type matches: itself, plus
// "physical" or "energy" per the groupings in §4.6.
func TagSet(damageType string) map[string]bool {
	normalized := NormalizeDamageType(damageType)
	tags := map[string]bool{normalized: true}
	if physicalTypes[normalized] {
		tags["physical"] = true
	}
	if energyTypes[normalized] {
		tags["energy"] = true
	}
	return tags
}

// ModifierResult captures the outcome of applying resistance/weakness/immunity
// to a raw damage amount.
type ModifierResult struct {
	Applied    int
	Immune     bool
	Resistance int
	Weakness   int
}

// ApplyModifiers implements §4.6's five-step pipeline: normalize the damage
// type, build its tag set, check immunity (bypassable), compute the maximum
// matching resistance (bypassable) and weakness (never bypassable), and
// combine them against the raw amount.
func ApplyModifiers(raw int, damageType string, resistances, weaknesses map[string]int, immunities []string, bypass []string) ModifierResult {
	tags := TagSet(damageType)
	bypassSet := toSet(bypass)

	for _, tag := range immunities {
		normalizedTag := strings.ToLower(strings.TrimSpace(tag))
		if bypassSet[normalizedTag] {
			continue
		}
		if normalizedTag == "all" || tags[normalizedTag] {
			return ModifierResult{Applied: 0, Immune: true}
		}
	}

	resistanceTotal := maxMatching(resistances, tags, bypassSet, true)
	weaknessTotal := maxMatching(weaknesses, tags, nil, false)

	applied := raw - resistanceTotal + weaknessTotal
	if applied < 0 {
		applied = 0
	}
	return ModifierResult{
		Applied:    applied,
		Resistance: resistanceTotal,
		Weakness:   weaknessTotal,
	}
}

func maxMatching(table map[string]int, tags map[string]bool, bypassSet map[string]bool, honorAllTag bool) int {
	max := 0
	for key, amount := range table {
		normalizedKey := strings.ToLower(strings.TrimSpace(key))
		if bypassSet != nil && bypassSet[normalizedKey] {
			continue
		}
		if !(tags[normalizedKey] || (honorAllTag && normalizedKey == "all")) {
			continue
		}
		if amount > max {
			max = amount
		}
	}
	return max
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}

// PoolResult captures the outcome of absorbing damage through a temp-HP pool.
type PoolResult struct {
	NewHP      int
	NewTempHP  int
	Absorbed   int
	HPLoss     int
}

// ApplyToPool absorbs damage from temp_hp before hp, per §4.6.
func ApplyToPool(hp, tempHP, total int) PoolResult {
	absorbed := total
	if tempHP < absorbed {
		absorbed = tempHP
	}
	hpLoss := total - absorbed
	newHP := hp - hpLoss
	if newHP < 0 {
		newHP = 0
	}
	return PoolResult{
		NewHP:     newHP,
		NewTempHP: tempHP - absorbed,
		Absorbed:  absorbed,
		HPLoss:    hpLoss,
	}
}
