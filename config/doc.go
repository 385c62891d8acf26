// Package config loads service configuration from a YAML file and the
// environment, with environment values winning.
//
// Every key can be set through an SPORTOPS_ prefixed variable, section and
// key joined by underscores: quota.per_day becomes SPORTOPS_QUOTA_PER_DAY.
// The upstream credential is resolved through the secret package, so the
// config file can carry "${API_SPORTS_KEY}" or
// "secretref:file:/run/secrets/api_sports_key" instead of the key itself.
package config
