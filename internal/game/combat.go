package game

// PassiveEffectResult is the uniform output of every passive computation.
// Deltas are applied to running power totals; SuccessRateDelta shifts the
// owner's win probability.
type PassiveEffectResult struct {
	PowerDeltaSelf      float64
	PowerDeltaOpponent  float64
	SuccessRateDelta    float64
	IgnoresWoundThisHit bool
	// SuppressOpponentMaxRate caps the opponent's win probability when set.
	SuppressOpponentMaxRate *float64
	Trace                   string
}

type CombatOutcome struct {
	AttackerFinalPower  float64
	DefenderFinalPower  float64
	SuccessRateModifier float64
	WinnerIsAttacker    bool
	Roll                float64
	Threshold           float64
	// Escaped is set when the defender evaded before any power was compared.
	Escaped              bool
	AttackerIgnoresWound bool
	DefenderIgnoresWound bool
	Trace                []string
}
