package gdocai

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when required processor settings are missing
var ErrInvalidConfig = errors.New("invalid Document AI configuration")

// Config identifies the Document AI processor and the credentials used to
// call it. It is passed explicitly; nothing is read from the environment here.
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"` // empty uses application default credentials
}

// Validate checks that the processor can be addressed
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: no configuration", ErrInvalidConfig)
	}
	switch {
	case c.ProjectID == "":
		return fmt.Errorf("%w: project_id is required", ErrInvalidConfig)
	case c.Location == "":
		return fmt.Errorf("%w: location is required", ErrInvalidConfig)
	case c.ProcessorID == "":
		return fmt.Errorf("%w: processor_id is required", ErrInvalidConfig)
	}
	return nil
}

// Endpoint returns the regional API endpoint
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}

// ProcessorName returns the resource name of the processor
func (c *Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}
