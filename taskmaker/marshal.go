package taskmaker

import (
	"encoding/json"
	"fmt"
)

// Marshal encodes an event back into its wire form, so that persisted
// events round-trip through Parse unchanged.
func Marshal(ev Event) ([]byte, error) {
	switch e := ev.(type) {
	case TestcaseScore:
		return json.Marshal(map[string]TestcaseScore{"IOITestcaseScore": e})
	case SubtaskScore:
		return json.Marshal(map[string]SubtaskScore{"IOISubtaskScore": e})
	case TestcaseDone:
		wire := wireEvaluation{Testcase: e.Testcase}
		wire.Status.Done = &wireDone{}
		wire.Status.Done.Result.Resources = e.Resources
		return json.Marshal(map[string]wireEvaluation{"IOIEvaluation": wire})
	case Raw:
		return e.Data, nil
	}
	return nil, fmt.Errorf("unknown event type %T", ev)
}
