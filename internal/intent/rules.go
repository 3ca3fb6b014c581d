// Package intent holds the deterministic keyword classifier used whenever
// the primary classifier is unavailable or returns unusable output.
package intent

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
)

//go:embed rules.yaml
var rulesYAML []byte

// Rule is one row of the ordered trigger table. Rules are evaluated
// top-to-bottom and the first match wins.
type Rule struct {
	Intent   domain.Intent `yaml:"intent"`
	Triggers []string      `yaml:"triggers"`
	Requires []string      `yaml:"requires"`
	Strip    bool          `yaml:"strip"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

var rules = mustLoadRules()

func mustLoadRules() []Rule {
	var f ruleFile
	if err := yaml.Unmarshal(rulesYAML, &f); err != nil {
		panic(fmt.Sprintf("intent: invalid embedded rules.yaml: %v", err))
	}
	for _, r := range f.Rules {
		if !domain.KnownIntent(string(r.Intent)) {
			panic(fmt.Sprintf("intent: rules.yaml references unknown intent %q", r.Intent))
		}
	}
	return f.Rules
}

// Rules returns the ordered rule table.
func Rules() []Rule {
	return rules
}
