package risk

// TutorialStep constrains what a player may do at one point in the guided
// game. Advancement is gated on an explicit continue signal rather than on
// organic phase progression.
type TutorialStep struct {
	Title   string     `json:"title"`
	Prompt  string     `json:"prompt"`
	Allowed []MoveKind `json:"allowed"`
}

// Tutorial is an overlay on a normal game. It layers an allow-list check in
// front of the usual validation; the validator and applicator themselves are
// unchanged.
type Tutorial struct {
	Steps []TutorialStep `json:"steps"`
	Step  int            `json:"step"`
}

// Current returns the active step, or nil once the tutorial is finished.
func (t *Tutorial) Current() *TutorialStep {
	if t.Step < 0 || t.Step >= len(t.Steps) {
		return nil
	}
	return &t.Steps[t.Step]
}

// Done returns true once every step has been passed.
func (t *Tutorial) Done() bool {
	return t.Current() == nil
}

// Continue advances to the next step.
func (t *Tutorial) Continue() {
	if !t.Done() {
		t.Step++
	}
}

// Gate rejects moves outside the active step's allow-list. A finished
// tutorial gates nothing. Run before Validate; a move that passes the gate
// still has to pass normal validation.
func (t *Tutorial) Gate(mv Move) error {
	step := t.Current()
	if step == nil {
		return nil
	}
	for _, k := range step.Allowed {
		if k == mv.Kind {
			return nil
		}
	}
	return &ValidationError{mv, "not allowed in this tutorial step"}
}

// NewTutorial returns the guided first game: place armies, attack once,
// fortify, end the turn.
func NewTutorial() *Tutorial {
	return &Tutorial{
		Steps: []TutorialStep{
			{
				Title:   "Place your armies",
				Prompt:  "Deploy your reinforcements onto a territory you own.",
				Allowed: []MoveKind{MoveDeploy},
			},
			{
				Title:   "Attack",
				Prompt:  "Attack an adjacent enemy territory from one of yours with at least 2 armies.",
				Allowed: []MoveKind{MoveAttack, MoveSkip},
			},
			{
				Title:   "Fortify",
				Prompt:  "Move armies between two of your connected territories, or skip.",
				Allowed: []MoveKind{MoveFortify, MoveSkip},
			},
		},
	}
}
