package rules_test

import (
	"fmt"

	"github.com/matzehuels/nestview/pkg/model"
	"github.com/matzehuels/nestview/pkg/rules"
)

func ExampleEvaluate() {
	node := model.Entity{
		ID:       "web-01",
		Label:    "Server",
		Metadata: model.Metadata{"status": "down", "cpu": 97.0},
	}
	enabled := []model.Rule{
		{
			ID: "base", Label: model.DefaultLabel, IsEnabled: true,
			Styling: model.Styling{Color: model.ColorSetting{IsSet: true, Color: "#222"}},
		},
		{
			ID: "down", Label: "Server", MetadataKey: "status",
			Operator: model.OpEquals, Value: "Down", IsEnabled: true,
			Styling: model.Styling{BackgroundColor: model.ColorSetting{IsSet: true, Color: "#fdd"}},
		},
		{
			ID: "hot", Label: "Server", MetadataKey: "cpu",
			Operator: model.OpBetween, Value: "90,100", IsEnabled: true,
			Styling: model.Styling{FontWeight: "bold"},
		},
	}

	matched, style := rules.Evaluate(node, enabled)
	for _, r := range matched {
		fmt.Println("matched:", r.ID)
	}
	fmt.Println(style)
	// Output:
	// matched: base
	// matched: down
	// matched: hot
	// color: #222; background-color: #fdd; fill: #fdd; font-weight: bold;
}
