// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"net"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/mitchellh/mapstructure"
)

const (
	// DefaultHost is the appliance address used when none is given.
	DefaultHost = "localhost"

	// DefaultPort is the port the appliance API listens on.
	DefaultPort = 9000

	// DefaultMessageByteLimit is the largest single message accepted
	// from the appliance.
	DefaultMessageByteLimit = 64 << 20

	// EnvPrefix prefixes every environment variable read by
	// InfoFromEnv.
	EnvPrefix = "NETLAB_CONFIG_"
)

// SSL modes.
const (
	// SSLDefault verifies the server certificate and hostname.
	SSLDefault = "default"

	// SSLSelfSigned accepts any server certificate.
	SSLSelfSigned = "self_signed"
)

// NetlabCiphers names the cipher list preconfigured for appliances.
const NetlabCiphers = "NETLAB"

const netlabCipherList = "DEFAULT:AES256-GCM-SHA384"

// Info encapsulates information about a server holding a netlab API and
// the credentials used to log in to it.
type Info struct {
	// Host holds the IP address or hostname of the appliance.
	Host string `mapstructure:"host"`

	// Port holds the port of the appliance API.
	Port int `mapstructure:"port"`

	// User holds the account used to authenticate. Currently only
	// "administrator" may use the API.
	User string `mapstructure:"user"`

	// Token holds the API token obtained from the appliance.
	Token string `mapstructure:"token"`

	// ServerHostname holds the name the server certificate is issued
	// to, when it differs from Host.
	ServerHostname string `mapstructure:"server_hostname"`

	// SSL holds the certificate verification mode, SSLDefault or
	// SSLSelfSigned.
	SSL string `mapstructure:"ssl"`

	// SSLCiphers holds an OpenSSL cipher list, or NetlabCiphers.
	SSLCiphers string `mapstructure:"ssl_ciphers"`

	// MessageByteLimit bounds the size of a single incoming message.
	MessageByteLimit int `mapstructure:"message_byte_limit"`
}

// DefaultInfo returns an Info holding every default. User and Token must
// still be supplied.
func DefaultInfo() Info {
	return Info{
		Host:             DefaultHost,
		Port:             DefaultPort,
		SSL:              SSLDefault,
		SSLCiphers:       NetlabCiphers,
		MessageByteLimit: DefaultMessageByteLimit,
	}
}

// Address returns the host:port address of the appliance.
func (info Info) Address() string {
	return net.JoinHostPort(info.Host, strconv.Itoa(info.Port))
}

// CipherList returns the cipher list to configure, with the NetlabCiphers
// alias expanded.
func (info Info) CipherList() string {
	if info.SSLCiphers == NetlabCiphers {
		return netlabCipherList
	}
	return info.SSLCiphers
}

// Validate validates the API info.
func (info Info) Validate() error {
	if info.Host == "" {
		return errors.NotValidf("empty Host")
	}
	if info.Port <= 0 || info.Port > 65535 {
		return errors.NotValidf("port %d", info.Port)
	}
	if info.User == "" {
		return errors.NotValidf("missing User")
	}
	if info.Token == "" {
		return errors.NotValidf("missing Token")
	}
	if info.SSL != SSLDefault && info.SSL != SSLSelfSigned {
		return errors.NotValidf("SSL mode %q", info.SSL)
	}
	if info.MessageByteLimit <= 0 {
		return errors.NotValidf("non-positive MessageByteLimit")
	}
	if net.ParseIP(info.Host) != nil && info.ServerHostname == "" {
		logger.Warningf("connecting to IP address %s without a server hostname is insecure", info.Host)
	}
	return nil
}

// InfoFromEnv returns base overlaid with any NETLAB_CONFIG_* variables
// found in environ, which holds "key=value" pairs as returned by
// os.Environ. The variable suffix, lowercased, names the Info field;
// NETLAB_CONFIG_PORT=9443 sets Port.
func InfoFromEnv(environ []string, base Info) (Info, error) {
	overlay := make(map[string]any)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		field := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if field == "timeout" {
			logger.Warningf("ignoring deprecated %s", key)
			continue
		}
		overlay[field] = value
	}
	if len(overlay) == 0 {
		return base, nil
	}

	info := base
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &info,
	})
	if err != nil {
		return Info{}, errors.Trace(err)
	}
	if err := decoder.Decode(overlay); err != nil {
		return Info{}, errors.NewNotValid(err, "reading "+EnvPrefix+"* environment")
	}
	return info, nil
}
