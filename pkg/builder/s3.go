package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const (
	DefaultS3Region          = "us-east-1"
	DefaultS3SessionName     = "condenser"
	DefaultS3SessionDuration = 15 * time.Minute
)

// S3Config describes how to reach the bucket holding compression history.
// An empty Endpoint means AWS; set it (and usually ForcePathStyle) for MinIO or LocalStack.
// Empty keys use the default credential chain. A RoleARN switches to STS assume-role on
// top of whatever base credentials resolve.
type S3Config struct {
	Region          string
	Endpoint        string
	ForcePathStyle  bool
	AccessKey       string
	SecretKey       string
	SessionToken    string
	RoleARN         string
	ExternalID      string
	SessionName     string
	SessionDuration time.Duration
}

// S3ConfigFromEnv reads <prefix>REGION, ENDPOINT, ACCESS_KEY, SECRET_KEY, SESSION_TOKEN,
// ASSUME_ROLE_ARN, EXTERNAL_ID and SESSION_DURATION. Path-style addressing defaults to
// on whenever an endpoint is set.
func S3ConfigFromEnv(prefix string) S3Config {
	endpoint := EnvOr(prefix+"ENDPOINT", "")
	return S3Config{
		Region:          EnvOr(prefix+"REGION", DefaultS3Region),
		Endpoint:        endpoint,
		ForcePathStyle:  EnvBoolOr(prefix+"PATH_STYLE", endpoint != ""),
		AccessKey:       EnvOr(prefix+"ACCESS_KEY", ""),
		SecretKey:       EnvOr(prefix+"SECRET_KEY", ""),
		SessionToken:    EnvOr(prefix+"SESSION_TOKEN", ""),
		RoleARN:         EnvOr(prefix+"ASSUME_ROLE_ARN", ""),
		ExternalID:      EnvOr(prefix+"EXTERNAL_ID", ""),
		SessionDuration: EnvDurationOr(prefix+"SESSION_DURATION", DefaultS3SessionDuration),
	}
}

func (c *S3Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultS3Region
	}
	if c.SessionName == "" {
		c.SessionName = DefaultS3SessionName
	}
	if c.SessionDuration <= 0 {
		c.SessionDuration = DefaultS3SessionDuration
	}
	c.Endpoint = strings.TrimRight(strings.TrimSpace(c.Endpoint), "/")
	c.RoleARN = strings.TrimSpace(c.RoleARN)
}

// Validate reports configurations the SDK would only reject on first use.
func (c S3Config) Validate() error {
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return errors.New("s3: access key and secret key must be set together")
	}
	if c.Endpoint != "" && !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return fmt.Errorf("s3: endpoint %q must include a scheme", c.Endpoint)
	}
	if c.ExternalID != "" && c.RoleARN == "" {
		return errors.New("s3: external id requires a role ARN")
	}
	return nil
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	if cfg.RoleARN != "" {
		stsClient := sts.NewFromConfig(awsCfg, func(o *sts.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
		})
		provider := stscreds.NewAssumeRoleProvider(stsClient, cfg.RoleARN, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = cfg.SessionName
			o.Duration = cfg.SessionDuration
			if cfg.ExternalID != "" {
				o.ExternalID = aws.String(cfg.ExternalID)
			}
		})
		awsCfg.Credentials = aws.NewCredentialsCache(provider)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
