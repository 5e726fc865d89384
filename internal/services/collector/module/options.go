package module

import (
	"time"

	"feasibility/internal/adapters/fhir"
	"feasibility/internal/platform/config"
)

// Options controls the collector and its FHIR connection
type Options struct {
	FHIR   fhir.Config
	Shards int
}

// FromConfig reads FHIR_ and COLLECTOR_ keys
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("FHIR_")
	c := cfg.Prefix("COLLECTOR_")
	return Options{
		FHIR: fhir.Config{
			BaseURL:              f.MayString("BASE_URL", ""),
			WebsocketURL:         f.MayString("WEBSOCKET_URL", ""),
			SubscriptionID:       f.MayString("SUBSCRIPTION_ID", ""),
			SubscriptionCriteria: f.MayString("SUBSCRIPTION_CRITERIA", fhir.DefaultCriteria),
			BearerToken:          f.MayString("BEARER_TOKEN", ""),
			Timeout:              f.MayDuration("TIMEOUT", 10*time.Second),
			MaxRetries:           f.MayInt("MAX_RETRIES", 3),
			Workers:              f.MayInt("WORKERS", 8),
		},
		Shards: c.MayInt("SHARDS", 32),
	}
}

// merge applies the non zero fields of o over base
func merge(base, o Options) Options {
	if o.FHIR.BaseURL != "" {
		base.FHIR.BaseURL = o.FHIR.BaseURL
	}
	if o.FHIR.WebsocketURL != "" {
		base.FHIR.WebsocketURL = o.FHIR.WebsocketURL
	}
	if o.FHIR.SubscriptionID != "" {
		base.FHIR.SubscriptionID = o.FHIR.SubscriptionID
	}
	if o.FHIR.SubscriptionCriteria != "" {
		base.FHIR.SubscriptionCriteria = o.FHIR.SubscriptionCriteria
	}
	if o.FHIR.BearerToken != "" {
		base.FHIR.BearerToken = o.FHIR.BearerToken
	}
	if o.FHIR.Timeout != 0 {
		base.FHIR.Timeout = o.FHIR.Timeout
	}
	if o.FHIR.MaxRetries != 0 {
		base.FHIR.MaxRetries = o.FHIR.MaxRetries
	}
	if o.FHIR.Workers != 0 {
		base.FHIR.Workers = o.FHIR.Workers
	}
	if o.Shards != 0 {
		base.Shards = o.Shards
	}
	return base
}
