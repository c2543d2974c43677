package valuation

import (
	"github.com/rotisserie/eris"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// ConditionMultiplier maps a condition grade to its multiplier. The table is
// total over the condition enumeration, so an unknown grade is a caller
// error, not a lookup miss.
func (e *Engine) ConditionMultiplier(c model.Condition) (float64, error) {
	m, ok := e.tables.Condition[c]
	if !ok {
		return 0, eris.Wrapf(model.ErrValidation, "valuation: unknown condition %q", c)
	}
	return m, nil
}
