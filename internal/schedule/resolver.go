package schedule

import "github.com/Nixie-Tech-LLC/fieldbook/internal/model"

// Window is the effective sub-window of a rule for one time of day.
type Window struct {
	Start    model.ClockTime
	End      model.ClockTime
	Price    *float64
	Capacity *int
	// BlockIndex is the matched position in rule.TimeBlocks, -1 for the whole rule window.
	BlockIndex int
}

// Resolve narrows an applicable rule to the window covering at. Without time
// blocks the rule's own open/close window is used at the rule's special
// price. With blocks, the first block in list order whose bounds contain at
// wins; both bounds are inclusive. ok is false when nothing covers at.
func Resolve(rule model.ScheduleRule, at model.ClockTime) (w Window, ok bool) {
	if len(rule.TimeBlocks) == 0 {
		if at < rule.OpenTime || at > rule.CloseTime {
			return Window{}, false
		}
		return Window{
			Start:      rule.OpenTime,
			End:        rule.CloseTime,
			Price:      rule.SpecialPrice,
			BlockIndex: -1,
		}, true
	}

	for i, block := range rule.TimeBlocks {
		if at >= block.StartTime && at <= block.EndTime {
			price := block.Price
			if price == nil {
				price = rule.SpecialPrice
			}
			return Window{
				Start:      block.StartTime,
				End:        block.EndTime,
				Price:      price,
				Capacity:   block.Capacity,
				BlockIndex: i,
			}, true
		}
	}
	return Window{}, false
}
