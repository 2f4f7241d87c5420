package subscription

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultRule admits one more entity while under the tier limit.
const DefaultRule = "max < 0 || current < max"

// Policy evaluates per-resource limit rules. Rules see current, max and tier.
type Policy struct {
	programs map[Resource]*vm.Program
}

func ruleEnv() map[string]any {
	return map[string]any{
		"current": 0,
		"max":     0,
		"tier":    "",
	}
}

// NewPolicy compiles rules; resources without a rule use DefaultRule.
func NewPolicy(rules map[Resource]string) (*Policy, error) {
	p := &Policy{programs: make(map[Resource]*vm.Program)}
	for _, r := range []Resource{ResourceProjects, ResourceExperiments} {
		src := rules[r]
		if src == "" {
			src = DefaultRule
		}
		program, err := expr.Compile(src, expr.Env(ruleEnv()), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRule, r, err)
		}
		p.programs[r] = program
	}
	return p, nil
}

// DefaultPolicy returns a policy using DefaultRule for every resource.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(nil)
	if err != nil {
		panic(err)
	}
	return p
}

// Allows reports whether tier admits one more r when current already exist.
func (p *Policy) Allows(tier Tier, r Resource, current int) (bool, error) {
	program, ok := p.programs[r]
	if !ok {
		return true, nil
	}
	env := map[string]any{
		"current": current,
		"max":     tier.Limit(r),
		"tier":    tier.ID,
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidRule, r, err)
	}
	allowed, _ := out.(bool)
	return allowed, nil
}

// Check returns ErrLimitReached when tier has no room for another r.
func (p *Policy) Check(tier Tier, r Resource, current int) error {
	allowed, err := p.Allows(tier, r, current)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: %s limit of %d on the %s plan", ErrLimitReached, r, tier.Limit(r), tier.Name)
	}
	return nil
}
