// Package template generates starter configuration documents for a given
// protocol and target combination. Generated documents pass validation and
// carry realistic placeholder values for the chosen environment.
package template

import (
	"fmt"
	"strings"

	"sfcwizard/internal/knowledge"
)

// Environment selects the tuning profile of a generated configuration.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ParseEnvironment validates an environment name, defaulting to development.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToLower(s)) {
	case EnvDevelopment, "":
		return EnvDevelopment, nil
	case EnvProduction:
		return EnvProduction, nil
	default:
		return "", fmt.Errorf("unknown environment %q (expected development or production)", s)
	}
}

// Generator builds configuration templates from the framework knowledge base.
type Generator struct {
	kb *knowledge.Base
}

// New creates a generator backed by the given knowledge base.
func New(kb *knowledge.Base) *Generator {
	return &Generator{kb: kb}
}

// Generate builds a complete configuration document for one protocol and one
// target. Protocol and target names are case-insensitive. Both must resolve
// to a known implementation locator so the generated document carries
// complete registries.
func (g *Generator) Generate(protocol, target string, env Environment) (map[string]interface{}, error) {
	protocol = strings.ToUpper(strings.TrimSpace(protocol))
	target = strings.ToUpper(strings.TrimSpace(target))

	if !g.kb.IsProtocolSupported(protocol) {
		return nil, fmt.Errorf("unsupported protocol %s (supported: %s)",
			protocol, strings.Join(g.kb.ProtocolNames(), ", "))
	}
	if _, _, ok := g.kb.TargetLocator(target); !ok {
		supported := append(g.kb.AWSTargetNames(), g.kb.EdgeTargetNames()...)
		return nil, fmt.Errorf("unsupported target %s (supported: %s)",
			target, strings.Join(supported, ", "))
	}

	interval := 5000
	logLevel := "Info"
	if env == EnvDevelopment {
		interval = 1000
		logLevel = "Trace"
	}

	sourceName := protocol + "-SOURCE"
	targetName := target + "Target"

	doc := map[string]interface{}{
		"AWSVersion":  knowledge.Version,
		"Name":        fmt.Sprintf("%s to %s Configuration", protocol, target),
		"Description": fmt.Sprintf("%s configuration for %s protocol to %s target", titleCase(string(env)), protocol, target),
		"LogLevel":    logLevel,
		"Schedules": []interface{}{
			map[string]interface{}{
				"Name":           protocol + "Schedule",
				"Interval":       interval,
				"Active":         true,
				"TimestampLevel": "Both",
				"Sources":        map[string]interface{}{sourceName: []interface{}{"*"}},
				"Targets":        []interface{}{targetName},
			},
		},
		"Sources":          g.sourceSection(protocol, sourceName),
		"Targets":          g.targetSection(target, targetName, env),
		"TargetTypes":      g.targetTypes(target),
		"AdapterTypes":     g.adapterTypes(protocol),
		"ProtocolAdapters": g.protocolAdapters(protocol),
	}

	return doc, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// adapterTypes registers the implementation locator of the chosen protocol.
func (g *Generator) adapterTypes(protocol string) map[string]interface{} {
	types := map[string]interface{}{}
	if loc, ok := g.kb.AdapterLocator(protocol); ok {
		types[protocol] = loc
	}
	return types
}

// targetTypes registers the locator under the name the framework resolves,
// which carries the edge target suffix for edge targets.
func (g *Generator) targetTypes(target string) map[string]interface{} {
	types := map[string]interface{}{}
	if registered, loc, ok := g.kb.TargetLocator(target); ok {
		types[registered] = loc
	}
	return types
}

// sourceSection builds one source with example channels for the protocol.
func (g *Generator) sourceSection(protocol, sourceName string) map[string]interface{} {
	source := map[string]interface{}{
		"Name":            protocol + "Source",
		"ProtocolAdapter": protocol,
		"Description":     protocol + " source configuration",
		"Channels":        map[string]interface{}{},
	}

	switch protocol {
	case "OPCUA":
		source["AdapterOpcuaServer"] = "OPCUA-SERVER-1"
		source["SourceReadingMode"] = "Polling"
		source["Channels"] = map[string]interface{}{
			"ServerStatus": map[string]interface{}{"NodeId": "ns=0;i=2256"},
			"ServerTime":   map[string]interface{}{"NodeId": "ns=0;i=2256", "Selector": "@.currentTime"},
		}
	case "MODBUS":
		source["AdapterDevice"] = "MODBUS-DEVICE-1"
		source["Channels"] = map[string]interface{}{
			"Register1": map[string]interface{}{"Address": 40001, "Type": "HoldingRegister"},
			"Register2": map[string]interface{}{"Address": 40002, "Type": "HoldingRegister"},
		}
	case "S7":
		source["AdapterController"] = "S7-PLC-1"
		source["Channels"] = map[string]interface{}{
			"DB1Value1": map[string]interface{}{"Name": "Value1", "Address": "DB100.DBW0", "Type": "Int"},
			"DB1Value2": map[string]interface{}{"Name": "Value2", "Address": "DB100.DBD4", "Type": "Real"},
		}
	case "ADS":
		source["AdapterDevice"] = "ADS-DEVICE-1"
		source["SourceAmsId"] = "192.168.1.10.1.1"
		source["SourceAmsPort"] = 851
		source["TargetAmsId"] = "192.168.1.20.1.1"
		source["TargetAmsPort"] = 852
		source["Channels"] = map[string]interface{}{
			"Temperature": map[string]interface{}{"Name": "Temperature", "SymbolName": "MAIN.Temperature"},
			"Pressure":    map[string]interface{}{"Name": "Pressure", "SymbolName": "MAIN.PressureValue"},
		}
	case "MQTT":
		source["AdapterBroker"] = "MQTT-BROKER-1"
		source["Channels"] = map[string]interface{}{
			"Temperature": map[string]interface{}{"Topics": []interface{}{"sensors/temperature"}},
			"Humidity":    map[string]interface{}{"Topics": []interface{}{"sensors/humidity"}},
		}
	case "REST":
		source["RestServer"] = "REST-SERVER-1"
		source["Request"] = "/api/sensors"
		source["Channels"] = map[string]interface{}{
			"Temperature": map[string]interface{}{"Name": "Temperature", "Json": true, "Selector": "@.temperature"},
			"Humidity":    map[string]interface{}{"Name": "Humidity", "Json": true, "Selector": "@.humidity"},
		}
	case "SNMP":
		source["AdapterDevice"] = "SNMP-DEVICE-1"
		source["Channels"] = map[string]interface{}{
			"SystemUptime":    map[string]interface{}{"Name": "Uptime", "ObjectId": "1.3.6.1.2.1.1.3.0"},
			"IncomingTraffic": map[string]interface{}{"Name": "InOctets", "ObjectId": "1.3.6.1.2.1.2.2.1.10.1"},
		}
	case "J1939":
		source["AdapterNetwork"] = "CAN-NETWORK-1"
		source["Channels"] = map[string]interface{}{
			"EngineSpeed": map[string]interface{}{"Name": "RPM", "PGN": 61444, "SPNs": []interface{}{190}},
			"EngineTemp":  map[string]interface{}{"Name": "Temperature", "PGN": 65262, "SPNs": []interface{}{110}},
		}
	case "NATS":
		source["AdapterBroker"] = "NATS-SERVER-1"
		source["Channels"] = map[string]interface{}{
			"SensorData":  map[string]interface{}{"Subject": "sensors.data"},
			"AlarmEvents": map[string]interface{}{"Subject": "alarms.events"},
		}
	case "OPCDA":
		source["AdapterServer"] = "OPCDA-SERVER-1"
		source["Channels"] = map[string]interface{}{
			"Temperature": map[string]interface{}{"ItemId": "Device1.Temperature"},
			"Pressure":    map[string]interface{}{"ItemId": "Device1.Pressure"},
		}
	case "PCCC":
		source["AdapterController"] = "PCCC-CONTROLLER-1"
		source["Channels"] = map[string]interface{}{
			"Counter": map[string]interface{}{"Name": "ProductCounter", "Address": "N7:0"},
			"Status":  map[string]interface{}{"Name": "MachineStatus", "Address": "B3:0/0"},
		}
	case "SIMULATOR":
		source["Channels"] = map[string]interface{}{
			"counter":  map[string]interface{}{"Simulation": map[string]interface{}{"SimulationType": "Counter", "DataType": "Int", "Min": 0, "Max": 100}},
			"sinus":    map[string]interface{}{"Simulation": map[string]interface{}{"SimulationType": "Sinus", "DataType": "Byte", "Min": 0, "Max": 100}},
			"triangle": map[string]interface{}{"Simulation": map[string]interface{}{"SimulationType": "Triangle", "DataType": "Byte", "Min": 0, "Max": 100}},
		}
	case "SLMP":
		source["AdapterController"] = "SLMP-CONTROLLER-1"
		source["Channels"] = map[string]interface{}{
			"DataRegister": map[string]interface{}{"Name": "Register", "Address": "D100", "Type": "Word"},
			"BitDevice":    map[string]interface{}{"Name": "Status", "Address": "M0", "Type": "Bit"},
		}
	case "SQL":
		source["AdapterDatabase"] = "SQL-DB-1"
		source["Query"] = "SELECT temperature, pressure, timestamp FROM sensor_data ORDER BY timestamp DESC LIMIT 1"
		source["Channels"] = map[string]interface{}{
			"Temperature": map[string]interface{}{"Name": "Temperature", "ColumnName": "temperature"},
			"Pressure":    map[string]interface{}{"Name": "Pressure", "ColumnName": "pressure"},
		}
	}

	return map[string]interface{}{sourceName: source}
}

// targetSection builds one target definition with service-specific defaults.
func (g *Generator) targetSection(target, targetName string, env Environment) map[string]interface{} {
	cfg := map[string]interface{}{
		"Active":     true,
		"TargetType": target,
	}

	switch target {
	case "AWS-S3":
		compression := "None"
		if env == EnvProduction {
			compression = "Gzip"
		}
		cfg["Region"] = "us-east-1"
		cfg["BucketName"] = "sfc-data-bucket"
		cfg["Interval"] = 60
		cfg["BufferSize"] = 10
		cfg["Prefix"] = "industrial-data"
		cfg["Compression"] = compression
	case "AWS-IOT-CORE":
		batchInterval := 1000
		if env == EnvProduction {
			batchInterval = 5000
		}
		cfg["Region"] = "us-east-1"
		cfg["TopicName"] = "sfc/industrial-data"
		cfg["BatchSize"] = 1024
		cfg["BatchCount"] = 100
		cfg["BatchInterval"] = batchInterval
	case "AWS-LAMBDA":
		cfg["Region"] = "us-east-1"
		cfg["FunctionName"] = "sfc-data-processor"
		cfg["BatchSize"] = 50
		cfg["Interval"] = 1000
	case "AWS-KINESIS":
		cfg["Region"] = "us-east-1"
		cfg["StreamName"] = "sfc-data-stream"
		cfg["BatchSize"] = 500
		cfg["Interval"] = 1000
	case "AWS-KINESIS-FIREHOSE":
		cfg["Region"] = "us-east-1"
		cfg["DeliveryStreamName"] = "sfc-delivery-stream"
		cfg["BatchSize"] = 500
		cfg["Interval"] = 1000
	case "AWS-IOT-ANALYTICS":
		cfg["Region"] = "us-east-1"
		cfg["ChannelName"] = "sfc-data-channel"
		cfg["BatchSize"] = 100
		cfg["Interval"] = 1000
	case "AWS-SITEWISE":
		cfg["Region"] = "us-east-1"
		cfg["BatchSize"] = 10
		cfg["Interval"] = 1000
		cfg["PropertyAliases"] = map[string]interface{}{"${source}": "${source}.${channel}"}
	case "AWS-SITEWISEEDGE":
		cfg["EndPoint"] = "localhost"
		cfg["Port"] = 50001
		cfg["BatchSize"] = 10
		cfg["Interval"] = 1000
		cfg["PropertyAliases"] = map[string]interface{}{"${source}": "${source}.${channel}"}
	case "AWS-SNS":
		cfg["Region"] = "us-east-1"
		cfg["TopicArn"] = "arn:aws:sns:us-east-1:123456789012:sfc-notifications"
		cfg["BatchSize"] = 10
		cfg["Interval"] = 1000
	case "AWS-SQS":
		cfg["Region"] = "us-east-1"
		cfg["QueueUrl"] = "https://sqs.us-east-1.amazonaws.com/123456789012/sfc-data-queue"
		cfg["BatchSize"] = 10
		cfg["Interval"] = 1000
	case "AWS-TIMESTREAM":
		cfg["Region"] = "us-east-1"
		cfg["DatabaseName"] = "sfc-database"
		cfg["TableName"] = "sfc-data-table"
		cfg["BatchSize"] = 100
		cfg["Interval"] = 1000
	case "AWS-MSK":
		cfg["Region"] = "us-east-1"
		cfg["BootstrapServers"] = "b-1.sfc-msk-cluster.xxxxx.c1.kafka.us-east-1.amazonaws.com:9094"
		cfg["Topic"] = "sfc-data-topic"
		cfg["BatchSize"] = 100
		cfg["Interval"] = 1000
		cfg["SecurityProtocol"] = "SASL_SSL"
	case "AWS-S3-TABLES":
		cfg["Region"] = "us-east-1"
		cfg["TableBucket"] = "sfc-data-tables-bucket"
		cfg["Interval"] = 60
		cfg["BufferCount"] = 100
		cfg["Namespace"] = "sfc"
		cfg["AutoCreate"] = true
		cfg["Tables"] = []interface{}{
			map[string]interface{}{
				"TableName": "sfc_table",
				"Schema":    []interface{}{},
				"Mappings":  []interface{}{},
				"Partition": map[string]interface{}{},
			},
		}
	case "DEBUG":
		cfg["TargetType"] = "DEBUG-TARGET"
	case "FILE":
		cfg["TargetType"] = "FILE-TARGET"
		cfg["Directory"] = "./data"
		cfg["FilenameTemplate"] = "data-%timestamp%.json"
		cfg["Interval"] = 60
		cfg["BufferSize"] = 10
	case "MQTT":
		cfg["TargetType"] = "MQTT-TARGET"
		cfg["EndPoint"] = "localhost"
		cfg["Port"] = 1883
		cfg["TopicName"] = "sfc/data"
		cfg["QoS"] = 1
		cfg["ConnectionTimeout"] = 30000
	case "NATS":
		cfg["TargetType"] = "NATS-TARGET"
		cfg["EndPoint"] = "localhost"
		cfg["Port"] = 4222
		cfg["Subject"] = "sfc.data"
	case "OPCUA":
		cfg["TargetType"] = "OPCUA-TARGET"
		cfg["EndPoint"] = "opc.tcp://localhost:4840"
		cfg["NodeNames"] = map[string]interface{}{
			"Temperature": "ns=2;s=Temperature",
			"Pressure":    "ns=2;s=Pressure",
		}
	case "ROUTER":
		cfg["TargetType"] = "ROUTER-TARGET"
		cfg["Routes"] = []interface{}{
			map[string]interface{}{
				"Name":       "Temperature Route",
				"TargetName": "DEBUG-TARGET",
				"Condition":  "${channel} == 'Temperature'",
			},
			map[string]interface{}{
				"Name":       "Default Route",
				"TargetName": "AWS-S3-TARGET",
			},
		}
	}

	return map[string]interface{}{targetName: cfg}
}

// protocolAdapters builds the adapter-level connection settings with
// placeholder endpoints the user replaces with their plant addresses.
func (g *Generator) protocolAdapters(protocol string) map[string]interface{} {
	adapter := map[string]interface{}{"AdapterType": protocol}

	switch protocol {
	case "OPCUA":
		adapter["OpcuaServers"] = map[string]interface{}{
			"OPCUA-SERVER-1": map[string]interface{}{
				"Address":        "opc.tcp://localhost",
				"Port":           4840,
				"Path":           "/",
				"ConnectTimeout": 10000,
				"ReadBatchSize":  500,
			},
		}
	case "MODBUS":
		adapter["Controllers"] = map[string]interface{}{
			"MODBUS-CONTROLLER-1": map[string]interface{}{
				"Address": "192.168.1.100",
				"Port":    502,
				"UnitId":  1,
			},
		}
	case "S7":
		adapter["Controllers"] = map[string]interface{}{
			"S7-PLC-1": map[string]interface{}{
				"Address":        "192.168.1.130",
				"ControllerType": "S7-1200",
			},
		}
	case "ADS":
		adapter["Controllers"] = map[string]interface{}{
			"ADS-CONTROLLER-1": map[string]interface{}{
				"Address":        "192.168.1.140",
				"Port":           48898,
				"ConnectTimeout": 10000,
			},
		}
	case "J1939":
		adapter["Networks"] = map[string]interface{}{
			"CAN-NETWORK-1": map[string]interface{}{
				"Interface":    "can0",
				"PollInterval": 500,
			},
		}
	case "MQTT":
		adapter["Brokers"] = map[string]interface{}{
			"MQTT-BROKER-1": map[string]interface{}{
				"EndPoint":          "localhost",
				"Port":              1883,
				"ConnectionTimeout": 10,
			},
		}
		adapter["ReadMode"] = "KeepLast"
	case "NATS":
		adapter["Brokers"] = map[string]interface{}{
			"NATS-SERVER-1": map[string]interface{}{
				"EndPoint": "localhost",
				"Port":     4222,
			},
		}
	case "OPCDA":
		adapter["Servers"] = map[string]interface{}{
			"OPCDA-SERVER-1": map[string]interface{}{
				"Host":           "localhost",
				"ProgID":         "Matrikon.OPC.Simulation",
				"ConnectTimeout": 5000,
			},
		}
	case "PCCC":
		adapter["Controllers"] = map[string]interface{}{
			"PCCC-CONTROLLER-1": map[string]interface{}{
				"Address": "192.168.1.150",
				"Port":    44818,
			},
		}
	case "REST":
		adapter["Endpoints"] = map[string]interface{}{
			"REST-ENDPOINT-1": map[string]interface{}{
				"BaseUrl":        "http://localhost:8080/api",
				"ConnectTimeout": 5000,
			},
		}
	case "SLMP":
		adapter["Controllers"] = map[string]interface{}{
			"SLMP-CONTROLLER-1": map[string]interface{}{
				"Address":        "192.168.1.160",
				"Port":           5007,
				"ConnectTimeout": 5000,
			},
		}
	case "SNMP":
		adapter["Devices"] = map[string]interface{}{
			"SNMP-DEVICE-1": map[string]interface{}{
				"Address":   "192.168.1.170",
				"Port":      161,
				"Version":   "V2c",
				"Community": "public",
			},
		}
	case "SQL":
		adapter["Databases"] = map[string]interface{}{
			"SQL-DB-1": map[string]interface{}{
				"ConnectionString": "jdbc:mysql://localhost:3306/testdb",
				"Driver":           "com.mysql.jdbc.Driver",
				"Username":         "${DB_USER}",
				"Password":         "${DB_PASSWORD}",
			},
		}
	}

	return map[string]interface{}{protocol: adapter}
}
