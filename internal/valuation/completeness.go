package valuation

import (
	"github.com/rotisserie/eris"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// CompletenessMultiplier scales by how much of the item (accessories,
// packaging, parts) is present. The floor keeps an entirely stripped item at
// a configured fraction of its otherwise-computed value; a 100%-complete
// item is unaffected.
func (e *Engine) CompletenessMultiplier(pct float64) (float64, error) {
	if pct < 0 || pct > 100 {
		return 0, eris.Wrapf(model.ErrValidation, "valuation: completeness_pct must be in [0,100], got %v", pct)
	}
	return e.cfg.CompletenessFloor + (1-e.cfg.CompletenessFloor)*(pct/100), nil
}
