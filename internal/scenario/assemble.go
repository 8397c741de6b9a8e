package scenario

import (
	"tactics-engine/internal/battle"
	"tactics-engine/internal/grid"
	"tactics-engine/internal/turnorder"
)

// unitAdapter lets *battle.Unit satisfy turnorder.Unit without an import
// cycle between battle and turnorder.
type unitAdapter struct{ u *battle.Unit }

func (a unitAdapter) ID() string      { return a.u.ID }
func (a unitAdapter) Initiative() int { return a.u.Initiative }
func (a unitAdapter) Alive() bool     { return a.u.Alive() }

// Assemble converts a validated Document into a battle.BattleState: the
// map's blocked tiles, each unit defaulted through battle.NewUnit and then
// overwritten with the document's fields, and the initial initiative order
// built via turnorder.Build.
func Assemble(doc *Document) (*battle.BattleState, error) {
	m := grid.Map{
		Width:   doc.Map.Width,
		Height:  doc.Map.Height,
		Blocked: make(map[grid.Point]bool, len(doc.Map.Blocked)),
	}
	for _, pair := range doc.Map.Blocked {
		m.Blocked[grid.Point{X: pair[0], Y: pair[1]}] = true
	}

	units := make(map[string]*battle.Unit, len(doc.Units))
	turnUnits := make([]turnorder.Unit, 0, len(doc.Units))
	for _, ud := range doc.Units {
		u := battle.NewUnit(ud.ID, ud.Team)
		u.HP = ud.HP
		u.MaxHP = ud.HP
		if ud.MaxHP > 0 {
			u.MaxHP = ud.MaxHP
		}
		u.Position = ud.ToPoint()
		u.Initiative = ud.Initiative
		u.AttackMod = ud.AttackMod
		u.AC = ud.AC
		u.DamageFormula = ud.Damage
		u.TempHP = battle.TempHP{Amount: ud.TempHP}
		u.AttackDamageType = ud.AttackDamageType
		u.AttackDamageBypass = ud.AttackDamageBypass
		u.Fortitude = ud.Fortitude
		u.Reflex = ud.Reflex
		u.Will = ud.Will
		u.Resistances = ud.Resistances
		u.Weaknesses = ud.Weaknesses
		u.Immunities = ud.Immunities
		u.ConditionImmunities = ud.ConditionImmunities

		units[u.ID] = u
		turnUnits = append(turnUnits, unitAdapter{u})
	}

	state := &battle.BattleState{
		BattleID:    doc.BattleID,
		Seed:        doc.Seed,
		RoundNumber: 1,
		TurnOrder:   turnorder.Build(turnUnits),
		Units:       units,
		Map:         m,
		Effects:     map[string]*battle.Effect{},
		Flags:       doc.Flags,
	}
	if state.Flags == nil {
		state.Flags = map[string]bool{}
	}
	return state, nil
}
