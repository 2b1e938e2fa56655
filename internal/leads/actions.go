package leads

// Agent label recorded on interactions written through the sales-manager controls.
const AgentSalesManager = "SALES_MANAGER"

// actionStages maps sales-manager actions to the stage they move a lead to.
// This is the only path into closed_won and closed_lost.
var actionStages = map[string]Stage{
	"hold":        StageContacted,
	"qualify":     StageQualified,
	"opportunity": StageOpportunity,
	"close_won":   StageClosedWon,
	"close_lost":  StageClosedLost,
	"reopen":      StageQualified,
}

// ActionStage resolves a sales-manager action to its target stage.
func ActionStage(action string) (Stage, error) {
	stage, ok := actionStages[action]
	if !ok {
		return "", ErrInvalidAction
	}
	return stage, nil
}
