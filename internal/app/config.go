package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/haltiadata/catalog-collector/internal/clients/business"
	"github.com/haltiadata/catalog-collector/internal/clients/orgs"
	"github.com/haltiadata/catalog-collector/internal/clients/registry"
	"github.com/haltiadata/catalog-collector/internal/pipeline"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// Config is the full collector configuration. Values resolve in order:
// environment variable, then the optional YAML file named by
// COLLECTOR_CONFIG (keys in lowercase-dotted form), then the default.
type Config struct {
	Registry registry.Config
	Business business.Config
	Orgs     orgs.Config
	Pipeline pipeline.Config

	OpsAddr string
}

// fileValues is the flattened content of the optional YAML config file.
type fileValues map[string]string

func loadConfigFile(log *logger.Logger) fileValues {
	path := os.Getenv("COLLECTOR_CONFIG")
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Config file unreadable, using env only", "path", path, "error", err)
		return nil
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		log.Warn("Config file unparsable, using env only", "path", path, "error", err)
		return nil
	}
	values := fileValues{}
	flattenYAML("", tree, values)
	log.Info("Loaded config file", "path", path, "keys", len(values))
	return values
}

func flattenYAML(prefix string, node map[string]any, out fileValues) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case map[string]any:
			flattenYAML(key, child, out)
		case nil:
		default:
			out[key] = fmt.Sprintf("%v", child)
		}
	}
}

// envToFileKey converts COLLECTOR_INTERVAL_MIN to collector.interval.min.
func envToFileKey(envKey string) string {
	return strings.ReplaceAll(strings.ToLower(envKey), "_", ".")
}

type configLoader struct {
	file fileValues
	log  *logger.Logger
}

func (c *configLoader) str(envKey, def string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if v, ok := c.file[envToFileKey(envKey)]; ok && v != "" {
		return v
	}
	c.log.Info("Config default applied", "key", envKey, "value", def)
	return def
}

func (c *configLoader) num(envKey string, def int) int {
	raw := c.str(envKey, strconv.Itoa(def))
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.log.Warn("Config value not numeric, using default", "key", envKey, "value", raw, "default", def)
		return def
	}
	return v
}

func (c *configLoader) boolean(envKey string, def bool) bool {
	raw := c.str(envKey, strconv.FormatBool(def))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.log.Warn("Config value not boolean, using default", "key", envKey, "value", raw, "default", def)
		return def
	}
	return v
}

func LoadConfig(log *logger.Logger) Config {
	c := &configLoader{file: loadConfigFile(log), log: log}

	timeoutSeconds := c.num("CLIENT_TIMEOUT_SECONDS", 60)

	registryCfg := registry.Config{
		Instance:             c.str("REGISTRY_INSTANCE", "DEV"),
		MemberClass:          c.str("MEMBER_CLASS", "GOV"),
		MemberCode:           c.str("MEMBER_CODE", ""),
		SubsystemCode:        c.str("SUBSYSTEM_CODE", ""),
		SecurityServerHost:   c.str("SECURITY_SERVER_HOST", "http://localhost"),
		WebservicesEndpoint:  c.str("WEBSERVICES_ENDPOINT", "http://localhost"),
		ListClientsHost:      c.str("LIST_CLIENTS_HOST", "http://localhost"),
		FetchWsdlHost:        c.str("FETCH_WSDL_HOST", "http://localhost"),
		FetchOpenApiHost:     c.str("FETCH_OPENAPI_HOST", "http://localhost"),
		FetchRestHost:        c.str("SECURITY_SERVER_HOST", "http://localhost"),
		ClientTimeoutSeconds: timeoutSeconds,
	}

	businessCfg := business.Config{
		BaseURL:              c.str("FETCH_COMPANIES_URL", ""),
		ClientTimeoutSeconds: timeoutSeconds,
	}

	orgsCfg := orgs.Config{
		BaseURL:              c.str("FETCH_ORGANIZATIONS_URL", ""),
		ClientTimeoutSeconds: timeoutSeconds,
	}

	pipelineCfg := pipeline.Config{
		CollectorInterval:     time.Duration(c.num("COLLECTOR_INTERVAL_MIN", 20)) * time.Minute,
		FetchExternalInterval: time.Duration(c.num("FETCH_EXTERNAL_INTERVAL_MIN", 20)) * time.Minute,

		ListMethodsPoolSize:        c.num("LIST_METHODS_POOL_SIZE", 50),
		FetchWsdlPoolSize:          c.num("FETCH_WSDL_POOL_SIZE", 10),
		FetchOpenApiPoolSize:       c.num("FETCH_OPENAPI_POOL_SIZE", 10),
		FetchRestPoolSize:          c.num("FETCH_REST_POOL_SIZE", 10),
		FetchCompaniesPoolSize:     c.num("FETCH_COMPANIES_POOL_SIZE", 10),
		FetchOrganizationsPoolSize: c.num("FETCH_ORGANIZATIONS_POOL_SIZE", 10),

		FetchWindow: pipeline.Window{
			AfterHour:  c.num("FETCH_TIME_AFTER_HOUR", 3),
			BeforeHour: c.num("FETCH_TIME_BEFORE_HOUR", 4),
			Unlimited:  c.boolean("FETCH_RUN_UNLIMITED", false),
		},
		FetchExternalWindow: pipeline.Window{
			AfterHour:  c.num("FETCH_EXTERNAL_TIME_AFTER_HOUR", 3),
			BeforeHour: c.num("FETCH_EXTERNAL_TIME_BEFORE_HOUR", 4),
			Unlimited:  c.boolean("FETCH_EXTERNAL_RUN_UNLIMITED", false),
		},
		FlushLogWindow: pipeline.Window{
			AfterHour:  c.num("FLUSH_LOG_TIME_AFTER_HOUR", 3),
			BeforeHour: c.num("FLUSH_LOG_TIME_BEFORE_HOUR", 4),
		},

		ErrorLogRetentionDays:  c.num("ERROR_LOG_LENGTH_IN_DAYS", 90),
		FetchExternalStaleDays: c.num("FETCH_EXTERNAL_UPDATE_AFTER_DAYS", 7),
		FetchExternalLimit:     c.num("FETCH_EXTERNAL_LIMIT", 500),
		FetchCompaniesLimit:    c.num("FETCH_COMPANIES_LIMIT", 300),

		ExternalProfile: c.boolean("EXTERNAL_PROFILE", false),
	}

	return Config{
		Registry: registryCfg,
		Business: businessCfg,
		Orgs:     orgsCfg,
		Pipeline: pipelineCfg,
		OpsAddr:  c.str("OPS_ADDR", ":8080"),
	}
}
