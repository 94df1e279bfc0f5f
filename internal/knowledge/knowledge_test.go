package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsProtocolSupported(t *testing.T) {
	kb := New()

	assert.True(t, kb.IsProtocolSupported("OPCUA"))
	assert.True(t, kb.IsProtocolSupported("SIMULATOR"))
	assert.False(t, kb.IsProtocolSupported("opcua"), "protocol names are case-sensitive")
	assert.False(t, kb.IsProtocolSupported("PROFINET"))
}

func TestIsTargetSupported(t *testing.T) {
	tests := []struct {
		name       string
		targetType string
		expected   bool
	}{
		{name: "aws target", targetType: "AWS-S3", expected: true},
		{name: "edge target bare", targetType: "DEBUG", expected: true},
		{name: "edge target with suffix", targetType: "DEBUG-TARGET", expected: true},
		{name: "unknown target", targetType: "AWS-DYNAMODB", expected: false},
		{name: "suffix on aws target does not resolve", targetType: "AWS-S3-TARGET", expected: false},
	}

	kb := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, kb.IsTargetSupported(tc.targetType))
		})
	}
}

func TestAdapterLocator(t *testing.T) {
	kb := New()

	loc, ok := kb.AdapterLocator("MODBUS")
	require.True(t, ok)
	assert.Equal(t, "com.amazonaws.sfc.modbus.ModbusAdapter", loc.FactoryClassName)
	assert.Equal(t, []string{"${MODULES_DIR}/modbus/lib"}, loc.JarFiles)

	_, ok = kb.AdapterLocator("PROFINET")
	assert.False(t, ok)
}

func TestTargetLocatorNormalizesEdgeNames(t *testing.T) {
	kb := New()

	registered, loc, ok := kb.TargetLocator("DEBUG")
	require.True(t, ok)
	assert.Equal(t, "DEBUG-TARGET", registered)
	assert.Equal(t, "com.amazonaws.sfc.debugtarget.DebugTargetWriter", loc.FactoryClassName)

	registered, _, ok = kb.TargetLocator("AWS-SQS")
	require.True(t, ok)
	assert.Equal(t, "AWS-SQS", registered)

	_, _, ok = kb.TargetLocator("AWS-DYNAMODB")
	assert.False(t, ok)
}

func TestEveryProtocolHasLocator(t *testing.T) {
	kb := New()
	for name := range kb.Protocols {
		_, ok := kb.AdapterLocator(name)
		assert.True(t, ok, "protocol %s has no adapter locator", name)
	}
}

func TestEveryTargetHasLocator(t *testing.T) {
	kb := New()
	for name := range kb.AWSTargets {
		_, _, ok := kb.TargetLocator(name)
		assert.True(t, ok, "AWS target %s has no locator", name)
	}
	for name := range kb.EdgeTargets {
		_, _, ok := kb.TargetLocator(name)
		assert.True(t, ok, "edge target %s has no locator", name)
	}
}

func TestSortedNameLists(t *testing.T) {
	kb := New()

	names := kb.ProtocolNames()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
	assert.Len(t, names, len(kb.Protocols))
}
