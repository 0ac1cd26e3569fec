package lint

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeOptions decodes configured options into target, a pointer to a
// rule's option struct. Fields are matched by their mapstructure tags;
// strings such as "4" convert to numbers. A configured list replaces the
// default list rather than overwriting its first entries. Unknown keys are
// an error.
func DecodeOptions(opts map[string]any, target any) error {
	if len(opts) == 0 || target == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("decoding options: %w", err)
	}
	return nil
}

// OptionsFor returns the decoded options of rule under cfg.
func OptionsFor(rule RuleDef, cfg *Config) (any, error) {
	if rule.Options == nil {
		if len(cfg.GetRuleOptions(rule.ID)) > 0 {
			return nil, fmt.Errorf("rule %s takes no options", rule.ID)
		}
		return nil, nil
	}
	target := rule.Options()
	if err := DecodeOptions(cfg.GetRuleOptions(rule.ID), target); err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
	}
	return target, nil
}
