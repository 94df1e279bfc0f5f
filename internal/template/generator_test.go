package template

import (
	"encoding/json"
	"testing"

	"sfcwizard/internal/knowledge"
	"sfcwizard/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripJSON re-decodes a document so it carries the types a JSON decoder
// produces, matching what the validator sees in practice.
func roundTripJSON(t *testing.T, doc map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestParseEnvironment(t *testing.T) {
	env, err := ParseEnvironment("")
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, env)

	env, err = ParseEnvironment("Production")
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, env)

	_, err = ParseEnvironment("staging")
	assert.Error(t, err)
}

func TestGenerateRejectsUnsupportedProtocol(t *testing.T) {
	g := New(knowledge.New())

	_, err := g.Generate("PROFINET", "AWS-S3", EnvDevelopment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROFINET")
	assert.Contains(t, err.Error(), "OPCUA")
}

func TestGenerateRejectsUnsupportedTarget(t *testing.T) {
	g := New(knowledge.New())

	_, err := g.Generate("OPCUA", "FTP", EnvDevelopment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FTP")
	assert.Contains(t, err.Error(), "AWS-S3")
}

func TestGenerateEnvironmentProfiles(t *testing.T) {
	g := New(knowledge.New())

	dev, err := g.Generate("opcua", "aws-s3", EnvDevelopment)
	require.NoError(t, err)
	prod, err := g.Generate("opcua", "aws-s3", EnvProduction)
	require.NoError(t, err)

	assert.Equal(t, "Trace", dev["LogLevel"])
	assert.Equal(t, "Info", prod["LogLevel"])

	devSchedule := dev["Schedules"].([]interface{})[0].(map[string]interface{})
	prodSchedule := prod["Schedules"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 1000, devSchedule["Interval"])
	assert.Equal(t, 5000, prodSchedule["Interval"])

	devTarget := dev["Targets"].(map[string]interface{})["AWS-S3Target"].(map[string]interface{})
	prodTarget := prod["Targets"].(map[string]interface{})["AWS-S3Target"].(map[string]interface{})
	assert.Equal(t, "None", devTarget["Compression"])
	assert.Equal(t, "Gzip", prodTarget["Compression"])
}

func TestGenerateWiresScheduleReferences(t *testing.T) {
	g := New(knowledge.New())

	doc, err := g.Generate("MODBUS", "DEBUG", EnvDevelopment)
	require.NoError(t, err)

	schedule := doc["Schedules"].([]interface{})[0].(map[string]interface{})
	sources := schedule["Sources"].(map[string]interface{})
	assert.Contains(t, sources, "MODBUS-SOURCE")
	assert.Contains(t, doc["Sources"].(map[string]interface{}), "MODBUS-SOURCE")

	targets := schedule["Targets"].([]interface{})
	require.Len(t, targets, 1)
	assert.Contains(t, doc["Targets"].(map[string]interface{}), targets[0].(string))
}

func TestGenerateEdgeTargetUsesSuffixedType(t *testing.T) {
	g := New(knowledge.New())

	doc, err := g.Generate("SIMULATOR", "DEBUG", EnvDevelopment)
	require.NoError(t, err)

	target := doc["Targets"].(map[string]interface{})["DEBUGTarget"].(map[string]interface{})
	assert.Equal(t, "DEBUG-TARGET", target["TargetType"])

	types := doc["TargetTypes"].(map[string]interface{})
	assert.Contains(t, types, "DEBUG-TARGET")
}

func TestGenerateRegistersLocators(t *testing.T) {
	g := New(knowledge.New())

	doc, err := g.Generate("S7", "AWS-SQS", EnvProduction)
	require.NoError(t, err)

	adapterTypes := doc["AdapterTypes"].(map[string]interface{})
	loc, ok := adapterTypes["S7"].(knowledge.Locator)
	require.True(t, ok)
	assert.Equal(t, "com.amazonaws.sfc.s7.S7Adapter", loc.FactoryClassName)

	targetTypes := doc["TargetTypes"].(map[string]interface{})
	assert.Contains(t, targetTypes, "AWS-SQS")
}

// Every supported protocol paired with a representative target must produce
// a document that validates without errors.
func TestGeneratedTemplatesValidate(t *testing.T) {
	kb := knowledge.New()
	g := New(kb)
	v := validator.New(kb, validator.Policy{})

	for _, protocol := range kb.ProtocolNames() {
		for _, target := range []string{"AWS-S3", "DEBUG", "ROUTER"} {
			t.Run(protocol+" to "+target, func(t *testing.T) {
				doc, err := g.Generate(protocol, target, EnvDevelopment)
				require.NoError(t, err)

				// The validator works on decoded JSON shapes.
				normalized := roundTripJSON(t, doc)
				res := v.Validate(normalized)
				assert.True(t, res.Valid, "errors: %v", res.Errors)
				assert.Empty(t, res.Warnings)
			})
		}
	}
}
