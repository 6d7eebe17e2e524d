package rekognition

// Config holds configuration for the AWS Rekognition face detector.
type Config struct {
	// Region is the AWS region where Rekognition is called (e.g. "us-east-1").
	Region string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Region: "us-east-1",
	}
}
