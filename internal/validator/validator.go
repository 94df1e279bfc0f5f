// Package validator checks SFC configuration documents for structural
// completeness and cross-reference consistency. All problems are reported as
// findings in the result, never as Go errors: a caller always receives a
// structured result, even for badly shaped input.
package validator

import (
	"fmt"
	"strings"

	"sfcwizard/internal/knowledge"
)

// Policy controls how registry misses are treated. The framework can resolve
// adapter and target implementations at deploy time, so an unregistered type
// is a warning by default; strict mode upgrades those findings to errors.
type Policy struct {
	StrictTypes bool
}

// Validator validates configuration documents against the framework
// knowledge base. It is stateless between calls and safe for concurrent use.
type Validator struct {
	kb     *knowledge.Base
	policy Policy
}

// New creates a validator with the given knowledge base and policy.
func New(kb *knowledge.Base, policy Policy) *Validator {
	return &Validator{kb: kb, policy: policy}
}

// Validate checks the document and returns all findings. The document is
// never mutated. Valid is true iff no error-level finding was produced.
func (v *Validator) Validate(doc map[string]interface{}) Result {
	var res Result

	v.validateStructure(doc, &res)
	schedules := v.validateSchedules(doc, &res)
	sources := v.validateSources(doc, &res)
	targets := v.validateTargets(doc, &res)
	v.validateReferences(schedules, sources, targets, &res)
	v.validateRegistries(doc, &res)

	res.Valid = len(res.Errors) == 0
	if res.Errors == nil {
		res.Errors = []Finding{}
	}
	if res.Warnings == nil {
		res.Warnings = []Finding{}
	}
	return res
}

// typeSeverity is the severity used for unsupported/unregistered type findings.
func (v *Validator) typeSeverity() Severity {
	if v.policy.StrictTypes {
		return SeverityError
	}
	return SeverityWarning
}

func (v *Validator) validateStructure(doc map[string]interface{}, res *Result) {
	for _, section := range knowledge.RequiredSections {
		if _, ok := doc[section]; !ok {
			res.addError(section, "missing required section: %s", section)
		}
	}

	if version, ok := doc["AWSVersion"]; ok {
		if s, isString := version.(string); !isString || s != knowledge.Version {
			res.addError("AWSVersion", "AWSVersion should be %q", knowledge.Version)
		}
	}
}

// schedule captures the parts of a schedule entry needed for cross-reference
// checks after the per-schedule validation pass.
type schedule struct {
	name    string
	sources []string
	targets []string
}

func (v *Validator) validateSchedules(doc map[string]interface{}, res *Result) []schedule {
	raw, ok := doc["Schedules"]
	if !ok {
		return nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		res.addError("Schedules", "must be a list of schedule definitions")
		return nil
	}
	if len(list) == 0 {
		res.addError("Schedules", "at least one schedule must be defined")
		return nil
	}

	seen := map[string]bool{}
	var schedules []schedule

	for idx, item := range list {
		field := fmt.Sprintf("Schedules[%d]", idx)

		entry, ok := item.(map[string]interface{})
		if !ok {
			res.addError(field, "schedule must be an object")
			continue
		}

		sched := schedule{}

		name, hasName := entry["Name"].(string)
		if !hasName || name == "" {
			res.addError(field+".Name", "schedule %d missing 'Name'", idx)
		} else {
			sched.name = name
			field = fmt.Sprintf("Schedules[%s]", name)
			if seen[name] {
				res.addError(field+".Name", "duplicate schedule name: %s", name)
			}
			seen[name] = true
		}

		if interval, ok := entry["Interval"]; ok {
			if n, isNumber := asNumber(interval); !isNumber || n <= 0 {
				res.addError(field+".Interval", "interval must be a positive number")
			}
		}

		sched.sources = v.scheduleSources(entry, field, res)
		sched.targets = v.scheduleTargets(entry, field, res)

		schedules = append(schedules, sched)
	}

	return schedules
}

// scheduleSources extracts the source references of one schedule. Sources may
// be a mapping of source name to channel selectors, or a plain list of names.
func (v *Validator) scheduleSources(entry map[string]interface{}, field string, res *Result) []string {
	raw, ok := entry["Sources"]
	if !ok {
		res.addError(field+".Sources", "schedule missing 'Sources'")
		return nil
	}

	switch sources := raw.(type) {
	case map[string]interface{}:
		names := make([]string, 0, len(sources))
		for name := range sources {
			names = append(names, name)
		}
		return names
	case []interface{}:
		var names []string
		for _, item := range sources {
			if name, ok := item.(string); ok {
				names = append(names, name)
			} else {
				res.addError(field+".Sources", "source reference must be a string")
			}
		}
		return names
	default:
		res.addError(field+".Sources", "must be a mapping of source names or a list of names")
		return nil
	}
}

func (v *Validator) scheduleTargets(entry map[string]interface{}, field string, res *Result) []string {
	raw, ok := entry["Targets"]
	if !ok {
		res.addError(field+".Targets", "schedule missing 'Targets'")
		return nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		res.addError(field+".Targets", "must be a list of target names")
		return nil
	}

	var names []string
	for _, item := range list {
		if name, ok := item.(string); ok {
			names = append(names, name)
		} else {
			res.addError(field+".Targets", "target reference must be a string")
		}
	}
	return names
}

func (v *Validator) validateSources(doc map[string]interface{}, res *Result) map[string]bool {
	raw, ok := doc["Sources"]
	if !ok {
		return nil
	}

	sources, ok := raw.(map[string]interface{})
	if !ok {
		res.addError("Sources", "must be a mapping of source definitions")
		return nil
	}
	if len(sources) == 0 {
		res.addError("Sources", "at least one source must be defined")
		return map[string]bool{}
	}

	defined := make(map[string]bool, len(sources))
	for name, rawSource := range sources {
		defined[name] = true
		field := "Sources." + name

		source, ok := rawSource.(map[string]interface{})
		if !ok {
			res.addError(field, "source must be an object")
			continue
		}

		protocol, hasProtocol := source["ProtocolAdapter"].(string)
		if !hasProtocol || protocol == "" {
			res.addError(field+".ProtocolAdapter", "source '%s' missing 'ProtocolAdapter'", name)
		} else if !v.kb.IsProtocolSupported(protocol) {
			res.add(v.typeSeverity(), field+".ProtocolAdapter",
				"source '%s' uses unsupported protocol adapter '%s' (supported: %s)",
				name, protocol, strings.Join(v.kb.ProtocolNames(), ", "))
		}

		if _, ok := source["Channels"]; !ok {
			res.addError(field+".Channels", "source '%s' missing 'Channels'", name)
		}
	}

	return defined
}

func (v *Validator) validateTargets(doc map[string]interface{}, res *Result) map[string]bool {
	raw, ok := doc["Targets"]
	if !ok {
		return nil
	}

	targets, ok := raw.(map[string]interface{})
	if !ok {
		res.addError("Targets", "must be a mapping of target definitions")
		return nil
	}
	if len(targets) == 0 {
		res.addError("Targets", "at least one target must be defined")
		return map[string]bool{}
	}

	defined := make(map[string]bool, len(targets))
	for name, rawTarget := range targets {
		defined[name] = true
		field := "Targets." + name

		target, ok := rawTarget.(map[string]interface{})
		if !ok {
			res.addError(field, "target must be an object")
			continue
		}

		targetType, hasType := target["TargetType"].(string)
		if !hasType || targetType == "" {
			res.addError(field+".TargetType", "target '%s' missing 'TargetType'", name)
		} else if !v.kb.IsTargetSupported(targetType) {
			res.add(v.typeSeverity(), field+".TargetType",
				"target '%s' uses unsupported target type '%s' (AWS targets: %s; edge targets: %s)",
				name, targetType,
				strings.Join(v.kb.AWSTargetNames(), ", "),
				strings.Join(v.kb.EdgeTargetNames(), ", "))
		}
	}

	return defined
}

// validateReferences checks that every source and target a schedule names is
// actually defined. A nil definition map means the section itself was missing
// or malformed; that is already reported, so reference checks are skipped to
// avoid cascading noise.
func (v *Validator) validateReferences(schedules []schedule, sources, targets map[string]bool, res *Result) {
	for _, sched := range schedules {
		label := sched.name
		if label == "" {
			label = "(unnamed)"
		}

		if sources != nil {
			for _, ref := range sched.sources {
				if !sources[ref] {
					res.addError(fmt.Sprintf("Schedules[%s].Sources", label),
						"schedule '%s' references undefined source '%s'", label, ref)
				}
			}
		}

		if targets != nil {
			for _, ref := range sched.targets {
				if !targets[ref] {
					res.addError(fmt.Sprintf("Schedules[%s].Targets", label),
						"schedule '%s' references undefined target '%s'", label, ref)
				}
			}
		}
	}
}

// validateRegistries checks that the document carries implementation
// registries (inline types or server references) and that declared adapter
// and target types are registered. Registration misses follow the policy
// severity since implementations may be supplied at deploy time.
func (v *Validator) validateRegistries(doc map[string]interface{}, res *Result) {
	adapterTypes := asStringKeyedMap(doc["AdapterTypes"])
	adapterServers := asStringKeyedMap(doc["AdapterServers"])
	if len(adapterTypes) == 0 && len(adapterServers) == 0 {
		res.addError("AdapterTypes", "either 'AdapterTypes' or 'AdapterServers' must be defined")
	}

	targetTypes := asStringKeyedMap(doc["TargetTypes"])
	targetServers := asStringKeyedMap(doc["TargetServers"])
	if len(targetTypes) == 0 && len(targetServers) == 0 {
		res.addError("TargetTypes", "either 'TargetTypes' or 'TargetServers' must be defined")
	}

	// Cross-check declared types against the inline registries. When only
	// server registries are present the resolution happens remotely and no
	// local check is possible.
	if sources, ok := doc["Sources"].(map[string]interface{}); ok && len(adapterTypes) > 0 && len(adapterServers) == 0 {
		for name, rawSource := range sources {
			source, ok := rawSource.(map[string]interface{})
			if !ok {
				continue
			}
			protocol, ok := source["ProtocolAdapter"].(string)
			if !ok || protocol == "" {
				continue
			}
			if _, registered := adapterTypes[protocol]; !registered {
				res.add(v.typeSeverity(), "Sources."+name+".ProtocolAdapter",
					"adapter type '%s' is not registered in AdapterTypes", protocol)
			}
		}
	}

	if targets, ok := doc["Targets"].(map[string]interface{}); ok && len(targetTypes) > 0 && len(targetServers) == 0 {
		for name, rawTarget := range targets {
			target, ok := rawTarget.(map[string]interface{})
			if !ok {
				continue
			}
			targetType, ok := target["TargetType"].(string)
			if !ok || targetType == "" {
				continue
			}
			if !registeredTargetType(targetTypes, targetType) {
				res.add(v.typeSeverity(), "Targets."+name+".TargetType",
					"target type '%s' is not registered in TargetTypes", targetType)
			}
		}
	}
}

// registeredTargetType resolves a declared target type against the TargetTypes
// registry, accepting the edge target suffix convention in either direction.
func registeredTargetType(registry map[string]interface{}, targetType string) bool {
	if _, ok := registry[targetType]; ok {
		return true
	}
	if _, ok := registry[targetType+knowledge.EdgeTargetSuffix]; ok {
		return true
	}
	trimmed := strings.TrimSuffix(targetType, knowledge.EdgeTargetSuffix)
	if trimmed != targetType {
		if _, ok := registry[trimmed]; ok {
			return true
		}
	}
	return false
}

func asStringKeyedMap(raw interface{}) map[string]interface{} {
	m, _ := raw.(map[string]interface{})
	return m
}

// asNumber accepts the numeric types a JSON or YAML decoder may produce.
func asNumber(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
