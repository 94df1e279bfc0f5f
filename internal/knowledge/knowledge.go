// Package knowledge holds the static SFC framework knowledge base: the
// protocol adapters and targets the framework ships, their implementation
// locators, and the structural requirements every configuration shares.
// The validator, the template generator and the MCP tool server all consume it.
package knowledge

import (
	"sort"
	"strings"
)

// Version is the framework configuration version every document must declare.
const Version = "2022-04-02"

// EdgeTargetSuffix is appended to edge target type names in the TargetTypes
// registry ("DEBUG" is configured as "DEBUG-TARGET").
const EdgeTargetSuffix = "-TARGET"

// RequiredSections are the top-level keys every configuration must define.
var RequiredSections = []string{"AWSVersion", "Name", "Schedules", "Sources", "Targets"}

// Protocol describes a supported protocol adapter.
type Protocol struct {
	Description string
	DefaultPort int // 0 when the protocol has no default port
}

// AWSTarget describes a supported AWS service target.
type AWSTarget struct {
	Service  string
	RealTime bool
}

// EdgeTarget describes a supported edge (local) target.
type EdgeTarget struct {
	Description string
}

// Locator points at the implementation of an adapter or target type.
type Locator struct {
	JarFiles         []string `json:"JarFiles"`
	FactoryClassName string   `json:"FactoryClassName"`
}

// Base is the immutable knowledge base. Construct it with New; the maps must
// not be mutated by callers.
type Base struct {
	Protocols   map[string]Protocol
	AWSTargets  map[string]AWSTarget
	EdgeTargets map[string]EdgeTarget

	adapterLocators map[string]Locator
	targetLocators  map[string]Locator
}

// New returns the built-in knowledge base.
func New() *Base {
	return &Base{
		Protocols: map[string]Protocol{
			"OPCUA":     {Description: "OPC Unified Architecture", DefaultPort: 4840},
			"MODBUS":    {Description: "Modbus TCP/IP", DefaultPort: 502},
			"S7":        {Description: "Siemens S7 Communication", DefaultPort: 102},
			"MQTT":      {Description: "Message Queuing Telemetry Transport", DefaultPort: 1883},
			"REST":      {Description: "RESTful HTTP API", DefaultPort: 80},
			"SQL":       {Description: "SQL Database", DefaultPort: 1433},
			"SNMP":      {Description: "Simple Network Management Protocol", DefaultPort: 161},
			"PCCC":      {Description: "Allen-Bradley Rockwell PCCC", DefaultPort: 44818},
			"ADS":       {Description: "Beckhoff ADS", DefaultPort: 48898},
			"J1939":     {Description: "Vehicle CAN Bus Protocol"},
			"SLMP":      {Description: "Mitsubishi/Melsec SLMP", DefaultPort: 5007},
			"NATS":      {Description: "NATS Messaging", DefaultPort: 4222},
			"OPCDA":     {Description: "OPC Data Access"},
			"SIMULATOR": {Description: "Data Simulator"},
		},
		AWSTargets: map[string]AWSTarget{
			"AWS-IOT-CORE":         {Service: "AWS IoT Core", RealTime: true},
			"AWS-IOT-ANALYTICS":    {Service: "AWS IoT Analytics"},
			"AWS-SITEWISE":         {Service: "AWS IoT SiteWise", RealTime: true},
			"AWS-SITEWISEEDGE":     {Service: "AWS IoT SiteWise Edge", RealTime: true},
			"AWS-S3":               {Service: "Amazon S3"},
			"AWS-S3-TABLES":        {Service: "Amazon S3 Tables"},
			"AWS-KINESIS":          {Service: "Amazon Kinesis", RealTime: true},
			"AWS-KINESIS-FIREHOSE": {Service: "Amazon Kinesis Data Firehose"},
			"AWS-LAMBDA":           {Service: "AWS Lambda", RealTime: true},
			"AWS-SNS":              {Service: "Amazon SNS", RealTime: true},
			"AWS-SQS":              {Service: "Amazon SQS", RealTime: true},
			"AWS-TIMESTREAM":       {Service: "Amazon Timestream", RealTime: true},
			"AWS-MSK":              {Service: "Amazon MSK", RealTime: true},
		},
		EdgeTargets: map[string]EdgeTarget{
			"OPCUA":        {Description: "OPC-UA Server"},
			"OPCUA-WRITER": {Description: "OPC-UA Writer"},
			"DEBUG":        {Description: "Debug Terminal"},
			"FILE":         {Description: "File System"},
			"MQTT":         {Description: "MQTT Broker"},
			"NATS":         {Description: "NATS Server"},
			"ROUTER":       {Description: "Target Router"},
		},
		adapterLocators: map[string]Locator{
			"OPCUA":     {JarFiles: []string{"${MODULES_DIR}/opcua/lib"}, FactoryClassName: "com.amazonaws.sfc.opcua.OpcuaAdapter"},
			"MODBUS":    {JarFiles: []string{"${MODULES_DIR}/modbus/lib"}, FactoryClassName: "com.amazonaws.sfc.modbus.ModbusAdapter"},
			"S7":        {JarFiles: []string{"${MODULES_DIR}/s7/lib"}, FactoryClassName: "com.amazonaws.sfc.s7.S7Adapter"},
			"MQTT":      {JarFiles: []string{"${MODULES_DIR}/mqtt/lib"}, FactoryClassName: "com.amazonaws.sfc.mqtt.MqttAdapter"},
			"REST":      {JarFiles: []string{"${MODULES_DIR}/rest/lib"}, FactoryClassName: "com.amazonaws.sfc.rest.RestAdapter"},
			"SQL":       {JarFiles: []string{"${MODULES_DIR}/sql/lib"}, FactoryClassName: "com.amazonaws.sfc.sql.SqlAdapter"},
			"SNMP":      {JarFiles: []string{"${MODULES_DIR}/snmp/lib"}, FactoryClassName: "com.amazonaws.sfc.snmp.SnmpAdapter"},
			"PCCC":      {JarFiles: []string{"${MODULES_DIR}/pccc/lib"}, FactoryClassName: "com.amazonaws.sfc.pccc.PcccAdapter"},
			"ADS":       {JarFiles: []string{"${MODULES_DIR}/ads/lib"}, FactoryClassName: "com.amazonaws.sfc.ads.AdsAdapter"},
			"J1939":     {JarFiles: []string{"${MODULES_DIR}/j1939/lib"}, FactoryClassName: "com.amazonaws.sfc.j1939.J1939Adapter"},
			"SLMP":      {JarFiles: []string{"${MODULES_DIR}/slmp/lib"}, FactoryClassName: "com.amazonaws.sfc.slmp.SlmpAdapter"},
			"NATS":      {JarFiles: []string{"${MODULES_DIR}/nats/lib"}, FactoryClassName: "com.amazonaws.sfc.nats.NatsAdapter"},
			"OPCDA":     {JarFiles: []string{"${MODULES_DIR}/opcda/lib"}, FactoryClassName: "com.amazonaws.sfc.opcda.OpcdaAdapter"},
			"SIMULATOR": {JarFiles: []string{"${MODULES_DIR}/simulator/lib"}, FactoryClassName: "com.amazonaws.sfc.simulator.SimulatorAdapter"},
		},
		targetLocators: map[string]Locator{
			"AWS-IOT-CORE":         {JarFiles: []string{"${MODULES_DIR}/aws-iot-core-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awsiotcore.AwsIotCoreTargetWriter"},
			"AWS-IOT-ANALYTICS":    {JarFiles: []string{"${MODULES_DIR}/aws-iot-analytics-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awsiotanalytics.AwsIotAnalyticsTargetWriter"},
			"AWS-SITEWISE":         {JarFiles: []string{"${MODULES_DIR}/aws-sitewise-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awssitewise.AwsSitewiseTargetWriter"},
			"AWS-SITEWISEEDGE":     {JarFiles: []string{"${MODULES_DIR}/aws-sitewise-edge-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awssitewiseedge.AwsSitewiseEdgeTargetWriter"},
			"AWS-S3":               {JarFiles: []string{"${MODULES_DIR}/aws-s3-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awss3.AwsS3TargetWriter"},
			"AWS-S3-TABLES":        {JarFiles: []string{"${MODULES_DIR}/aws-s3-tables-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awss3tables.AwsS3TablesTargetWriter"},
			"AWS-KINESIS":          {JarFiles: []string{"${MODULES_DIR}/aws-kinesis-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awskinesis.AwsKinesisTargetWriter"},
			"AWS-KINESIS-FIREHOSE": {JarFiles: []string{"${MODULES_DIR}/aws-kinesis-firehose-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awskinesisfirehose.AwsKinesisFirehoseTargetWriter"},
			"AWS-LAMBDA":           {JarFiles: []string{"${MODULES_DIR}/aws-lambda-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awslambda.AwsLambdaTargetWriter"},
			"AWS-SNS":              {JarFiles: []string{"${MODULES_DIR}/aws-sns-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awssns.AwsSnsTargetWriter"},
			"AWS-SQS":              {JarFiles: []string{"${MODULES_DIR}/aws-sqs-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awssqs.AwsSqsTargetWriter"},
			"AWS-TIMESTREAM":       {JarFiles: []string{"${MODULES_DIR}/aws-timestream-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awstimestream.AwsTimestreamTargetWriter"},
			"AWS-MSK":              {JarFiles: []string{"${MODULES_DIR}/aws-msk-target/lib"}, FactoryClassName: "com.amazonaws.sfc.awsmsk.AwsMskTargetWriter"},
			"DEBUG-TARGET":         {JarFiles: []string{"${MODULES_DIR}/debug-target/lib"}, FactoryClassName: "com.amazonaws.sfc.debugtarget.DebugTargetWriter"},
			"FILE-TARGET":          {JarFiles: []string{"${MODULES_DIR}/file-target/lib"}, FactoryClassName: "com.amazonaws.sfc.filetarget.FileTargetWriter"},
			"MQTT-TARGET":          {JarFiles: []string{"${MODULES_DIR}/mqtt-target/lib"}, FactoryClassName: "com.amazonaws.sfc.mqtt.MqttTargetWriter"},
			"NATS-TARGET":          {JarFiles: []string{"${MODULES_DIR}/nats-target/lib"}, FactoryClassName: "com.amazonaws.sfc.nats.NatsTargetWriter"},
			"OPCUA-TARGET":         {JarFiles: []string{"${MODULES_DIR}/opcua-target/lib"}, FactoryClassName: "com.amazonaws.sfc.opcua.OpcuaTargetWriter"},
			"OPCUA-WRITER":         {JarFiles: []string{"${MODULES_DIR}/opcua-writer/lib"}, FactoryClassName: "com.amazonaws.sfc.opcua.OpcuaWriter"},
			"ROUTER-TARGET":        {JarFiles: []string{"${MODULES_DIR}/router-target/lib"}, FactoryClassName: "com.amazonaws.sfc.router.RouterTargetWriter"},
		},
	}
}

// IsProtocolSupported reports whether the given protocol adapter type is known.
func (b *Base) IsProtocolSupported(protocol string) bool {
	_, ok := b.Protocols[protocol]
	return ok
}

// IsTargetSupported reports whether the given target type is known, either as
// an AWS target or as an edge target. Edge targets are accepted both in their
// bare form ("DEBUG") and with the registry suffix ("DEBUG-TARGET").
func (b *Base) IsTargetSupported(targetType string) bool {
	if _, ok := b.AWSTargets[targetType]; ok {
		return true
	}
	if _, ok := b.EdgeTargets[targetType]; ok {
		return true
	}
	base := strings.TrimSuffix(targetType, EdgeTargetSuffix)
	if base != targetType {
		if _, ok := b.EdgeTargets[base]; ok {
			return true
		}
	}
	return false
}

// AdapterLocator returns the implementation locator for a protocol adapter.
func (b *Base) AdapterLocator(protocol string) (Locator, bool) {
	loc, ok := b.adapterLocators[protocol]
	return loc, ok
}

// TargetLocator returns the implementation locator for a target type. Edge
// target names without the registry suffix are normalized first, so both
// "DEBUG" and "DEBUG-TARGET" resolve to the debug target writer.
func (b *Base) TargetLocator(targetType string) (string, Locator, bool) {
	if loc, ok := b.targetLocators[targetType]; ok {
		return targetType, loc, ok
	}
	if _, ok := b.EdgeTargets[targetType]; ok {
		registered := targetType + EdgeTargetSuffix
		if loc, ok := b.targetLocators[registered]; ok {
			return registered, loc, true
		}
	}
	return "", Locator{}, false
}

// ProtocolNames returns the supported protocol names in sorted order.
func (b *Base) ProtocolNames() []string {
	return sortedKeys(b.Protocols)
}

// AWSTargetNames returns the supported AWS target names in sorted order.
func (b *Base) AWSTargetNames() []string {
	return sortedKeys(b.AWSTargets)
}

// EdgeTargetNames returns the supported edge target names in sorted order.
func (b *Base) EdgeTargetNames() []string {
	return sortedKeys(b.EdgeTargets)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Explanation returns the human-readable description of the SFC framework
// served by the what_is_sfc tool.
func (b *Base) Explanation() string {
	return `Shop Floor Connectivity (SFC) is an industrial data ingestion enabler that can
quickly deliver customizable greenfield and brownfield connectivity solutions.

Key features:
- Industrial connectivity: connect to various industrial protocols and devices
- Flexible integration: support for both greenfield (new) and brownfield (existing) installations
- Data ingestion: collect, transform, and route industrial data
- AWS integration: seamless connection to AWS services for processing and analysis
- Customizable: adaptable to specific industrial environments and requirements
- Scalable: handle diverse data volumes from industrial equipment

Benefits:
- Accelerate digital transformation of industrial environments
- Bridge the gap between OT (Operational Technology) and IT systems
- Enable data-driven decision making for manufacturing processes
- Reduce time-to-value for industrial IoT implementations
- Simplify complex industrial data integration challenges`
}
