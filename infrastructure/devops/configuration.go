package devops

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// DeployTarget is one deployed database this service may sync into.
type DeployTarget struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// DSN builds the mysql connection string for the target.
func (t DeployTarget) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", t.Username, t.Password, t.Host, t.Database)
}

// LoadDeployTargets reads the deployment list from the SSM parameter store.
// The parameter holds a yaml list of DeployTarget entries.
func LoadDeployTargets(ctx context.Context, paramName string) ([]DeployTarget, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter: %w", err)
	}

	var targets []DeployTarget
	if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &targets); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	return targets, nil
}
