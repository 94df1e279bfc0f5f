package validator

import (
	"encoding/json"
	"testing"

	"sfcwizard/internal/knowledge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	return New(knowledge.New(), Policy{})
}

// validDoc returns a minimal document that produces zero findings.
func validDoc() map[string]interface{} {
	return map[string]interface{}{
		"AWSVersion": knowledge.Version,
		"Name":       "Test Configuration",
		"Schedules": []interface{}{
			map[string]interface{}{
				"Name":     "MainSchedule",
				"Interval": float64(1000),
				"Sources":  map[string]interface{}{"PLC-SOURCE": []interface{}{"*"}},
				"Targets":  []interface{}{"S3Target"},
			},
		},
		"Sources": map[string]interface{}{
			"PLC-SOURCE": map[string]interface{}{
				"ProtocolAdapter": "OPCUA",
				"Channels":        map[string]interface{}{},
			},
		},
		"Targets": map[string]interface{}{
			"S3Target": map[string]interface{}{
				"Active":     true,
				"TargetType": "AWS-S3",
			},
		},
		"AdapterTypes": map[string]interface{}{
			"OPCUA": map[string]interface{}{},
		},
		"TargetTypes": map[string]interface{}{
			"AWS-S3": map[string]interface{}{},
		},
	}
}

func findingFields(findings []Finding) []string {
	fields := make([]string, 0, len(findings))
	for _, f := range findings {
		fields = append(fields, f.Field)
	}
	return fields
}

func TestValidDocumentHasNoFindings(t *testing.T) {
	v := newTestValidator(t)

	res := v.Validate(validDoc())

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.NotNil(t, res.Errors, "errors must serialize as [] not null")
	assert.NotNil(t, res.Warnings, "warnings must serialize as [] not null")
}

func TestMissingRequiredSections(t *testing.T) {
	tests := []struct {
		name    string
		section string
	}{
		{name: "missing AWSVersion", section: "AWSVersion"},
		{name: "missing Name", section: "Name"},
		{name: "missing Schedules", section: "Schedules"},
		{name: "missing Sources", section: "Sources"},
		{name: "missing Targets", section: "Targets"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := validDoc()
			delete(doc, tc.section)

			res := newTestValidator(t).Validate(doc)

			assert.False(t, res.Valid)
			assert.Contains(t, findingFields(res.Errors), tc.section)
		})
	}
}

func TestWrongVersion(t *testing.T) {
	doc := validDoc()
	doc["AWSVersion"] = "2021-01-01"

	res := newTestValidator(t).Validate(doc)

	assert.False(t, res.Valid)
	assert.Contains(t, findingFields(res.Errors), "AWSVersion")
}

func TestUnresolvedScheduleReferences(t *testing.T) {
	// A schedule referencing a source that is not defined must be reported.
	doc := map[string]interface{}{
		"AWSVersion": knowledge.Version,
		"Schedules": []interface{}{
			map[string]interface{}{
				"Name":     "S",
				"Interval": float64(1000),
				"Sources":  []interface{}{"A"},
				"Targets":  []interface{}{"T"},
			},
		},
		"Sources": map[string]interface{}{
			"B": map[string]interface{}{
				"ProtocolAdapter": "OPCUA",
				"Channels":        map[string]interface{}{},
			},
		},
		"Targets": map[string]interface{}{
			"T": map[string]interface{}{"TargetType": "DEBUG"},
		},
		"AdapterTypes": map[string]interface{}{"OPCUA": map[string]interface{}{}},
		"TargetTypes":  map[string]interface{}{"DEBUG-TARGET": map[string]interface{}{}},
	}

	res := newTestValidator(t).Validate(doc)

	require.False(t, res.Valid)
	found := false
	for _, f := range res.Errors {
		if f.Field == "Schedules[S].Sources" {
			assert.Contains(t, f.Message, "'S'")
			assert.Contains(t, f.Message, "'A'")
			found = true
		}
	}
	assert.True(t, found, "expected error naming schedule S and missing source A, got %v", res.Errors)
}

func TestUnresolvedTargetReference(t *testing.T) {
	doc := validDoc()
	doc["Schedules"].([]interface{})[0].(map[string]interface{})["Targets"] = []interface{}{"NoSuchTarget"}

	res := newTestValidator(t).Validate(doc)

	assert.False(t, res.Valid)
	assert.Contains(t, findingFields(res.Errors), "Schedules[MainSchedule].Targets")
}

func TestDuplicateScheduleNames(t *testing.T) {
	doc := validDoc()
	schedules := doc["Schedules"].([]interface{})
	dup := map[string]interface{}{
		"Name":     "MainSchedule",
		"Interval": float64(500),
		"Sources":  map[string]interface{}{"PLC-SOURCE": []interface{}{"*"}},
		"Targets":  []interface{}{"S3Target"},
	}
	doc["Schedules"] = append(schedules, dup)

	res := newTestValidator(t).Validate(doc)

	assert.False(t, res.Valid)
	assert.Contains(t, findingFields(res.Errors), "Schedules[MainSchedule].Name")
}

func TestNonPositiveInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval interface{}
		valid    bool
	}{
		{name: "positive float", interval: float64(1000), valid: true},
		{name: "positive int", interval: 250, valid: true},
		{name: "zero", interval: float64(0), valid: false},
		{name: "negative", interval: float64(-5), valid: false},
		{name: "string", interval: "1000", valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := validDoc()
			doc["Schedules"].([]interface{})[0].(map[string]interface{})["Interval"] = tc.interval

			res := newTestValidator(t).Validate(doc)
			assert.Equal(t, tc.valid, res.Valid)
		})
	}
}

func TestUnsupportedProtocolIsWarningByDefault(t *testing.T) {
	doc := validDoc()
	doc["Sources"].(map[string]interface{})["PLC-SOURCE"].(map[string]interface{})["ProtocolAdapter"] = "PROFINET"

	res := newTestValidator(t).Validate(doc)

	// Warnings do not block validity.
	assert.True(t, res.Valid)
	assert.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "PROFINET")
}

func TestUnsupportedProtocolIsErrorInStrictMode(t *testing.T) {
	doc := validDoc()
	doc["Sources"].(map[string]interface{})["PLC-SOURCE"].(map[string]interface{})["ProtocolAdapter"] = "PROFINET"

	v := New(knowledge.New(), Policy{StrictTypes: true})
	res := v.Validate(doc)

	assert.False(t, res.Valid)
}

func TestUnregisteredAdapterTypeIsWarning(t *testing.T) {
	doc := validDoc()
	// MODBUS is supported but not registered in this document's AdapterTypes.
	doc["Sources"].(map[string]interface{})["PLC-SOURCE"].(map[string]interface{})["ProtocolAdapter"] = "MODBUS"

	res := newTestValidator(t).Validate(doc)

	assert.True(t, res.Valid)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Message, "not registered in AdapterTypes")
}

func TestEdgeTargetSuffixNormalization(t *testing.T) {
	doc := validDoc()
	doc["Targets"].(map[string]interface{})["S3Target"] = map[string]interface{}{
		"TargetType": "DEBUG-TARGET",
	}
	doc["TargetTypes"] = map[string]interface{}{
		"DEBUG-TARGET": map[string]interface{}{},
	}

	res := newTestValidator(t).Validate(doc)

	assert.True(t, res.Valid, "findings: %v %v", res.Errors, res.Warnings)
	assert.Empty(t, res.Warnings)
}

func TestMissingRegistries(t *testing.T) {
	doc := validDoc()
	delete(doc, "AdapterTypes")
	delete(doc, "TargetTypes")

	res := newTestValidator(t).Validate(doc)

	assert.False(t, res.Valid)
	fields := findingFields(res.Errors)
	assert.Contains(t, fields, "AdapterTypes")
	assert.Contains(t, fields, "TargetTypes")
}

func TestServerRegistriesSatisfyRequirement(t *testing.T) {
	doc := validDoc()
	delete(doc, "AdapterTypes")
	doc["AdapterServers"] = map[string]interface{}{
		"AdapterServer1": map[string]interface{}{"Address": "localhost", "Port": float64(50051)},
	}

	res := newTestValidator(t).Validate(doc)

	assert.True(t, res.Valid, "findings: %v %v", res.Errors, res.Warnings)
}

func TestMalformedSectionsBecomeFindings(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
		field string
	}{
		{name: "schedules not a list", key: "Schedules", value: "nope", field: "Schedules"},
		{name: "sources not a mapping", key: "Sources", value: []interface{}{"a"}, field: "Sources"},
		{name: "targets not a mapping", key: "Targets", value: 17, field: "Targets"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := validDoc()
			doc[tc.key] = tc.value

			var res Result
			assert.NotPanics(t, func() {
				res = newTestValidator(t).Validate(doc)
			})
			assert.False(t, res.Valid)
			assert.Contains(t, findingFields(res.Errors), tc.field)
		})
	}
}

func TestMissingSourceFields(t *testing.T) {
	doc := validDoc()
	doc["Sources"].(map[string]interface{})["PLC-SOURCE"] = map[string]interface{}{}
	// The schedule still references PLC-SOURCE, which remains defined.

	res := newTestValidator(t).Validate(doc)

	assert.False(t, res.Valid)
	fields := findingFields(res.Errors)
	assert.Contains(t, fields, "Sources.PLC-SOURCE.ProtocolAdapter")
	assert.Contains(t, fields, "Sources.PLC-SOURCE.Channels")
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	doc := validDoc()
	before, err := json.Marshal(doc)
	require.NoError(t, err)

	newTestValidator(t).Validate(doc)

	after, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestResultJSONShape(t *testing.T) {
	res := newTestValidator(t).Validate(validDoc())

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["valid"])
	assert.IsType(t, []interface{}{}, decoded["errors"])
	assert.IsType(t, []interface{}{}, decoded["warnings"])
}
