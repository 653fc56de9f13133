package cmd

// Config carries every setting the orchestrator reads from the
// environment. All values arrive as strings; parsing happens where the
// value is consumed.
type Config struct {
	HTTPPort             string
	DBHost               string
	DBPort               string
	DBUser               string
	DBPassword           string
	DBName               string
	DBSslMode            string
	MqttBroker           string
	MqttClientID         string
	VapidPublicKey       string
	VapidPrivateKey      string
	VapidSubscriber      string
	TimeoutPolicyPath    string
	HeartbeatGraceSecond string
}
