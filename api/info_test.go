// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api_test

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/netlab/api"
)

type infoSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&infoSuite{})

func validInfo() api.Info {
	info := api.DefaultInfo()
	info.User = "administrator"
	info.Token = "token"
	return info
}

func (s *infoSuite) TestDefaults(c *gc.C) {
	info := api.DefaultInfo()
	c.Check(info.Host, gc.Equals, "localhost")
	c.Check(info.Port, gc.Equals, 9000)
	c.Check(info.SSL, gc.Equals, api.SSLDefault)
	c.Check(info.MessageByteLimit, gc.Equals, 64*1024*1024)
	c.Check(info.Address(), gc.Equals, "localhost:9000")
	c.Check(info.CipherList(), gc.Equals, "DEFAULT:AES256-GCM-SHA384")

	info.SSLCiphers = "ECDHE-RSA-AES128-GCM-SHA256"
	c.Check(info.CipherList(), gc.Equals, "ECDHE-RSA-AES128-GCM-SHA256")

	info.Host = "fe80::1"
	c.Check(info.Address(), gc.Equals, "[fe80::1]:9000")
}

func (s *infoSuite) TestValidate(c *gc.C) {
	c.Check(validInfo().Validate(), jc.ErrorIsNil)

	for i, test := range []struct {
		mutate func(*api.Info)
		err    string
	}{{
		mutate: func(info *api.Info) { info.Host = "" },
		err:    `empty Host not valid`,
	}, {
		mutate: func(info *api.Info) { info.Port = 70000 },
		err:    `port 70000 not valid`,
	}, {
		mutate: func(info *api.Info) { info.User = "" },
		err:    `missing User not valid`,
	}, {
		mutate: func(info *api.Info) { info.Token = "" },
		err:    `missing Token not valid`,
	}, {
		mutate: func(info *api.Info) { info.SSL = "none" },
		err:    `SSL mode "none" not valid`,
	}, {
		mutate: func(info *api.Info) { info.MessageByteLimit = 0 },
		err:    `non-positive MessageByteLimit not valid`,
	}} {
		c.Logf("test %d", i)
		info := validInfo()
		test.mutate(&info)
		err := info.Validate()
		c.Check(err, jc.ErrorIs, errors.NotValid)
		c.Check(err, gc.ErrorMatches, test.err)
	}
}

func (s *infoSuite) TestValidateBareIP(c *gc.C) {
	// An IP address without a server hostname is insecure but allowed.
	info := validInfo()
	info.Host = "192.168.1.10"
	c.Check(info.Validate(), jc.ErrorIsNil)
	c.Check(info.Address(), gc.Equals, "192.168.1.10:9000")
}

func (s *infoSuite) TestInfoFromEnv(c *gc.C) {
	info, err := api.InfoFromEnv([]string{
		"HOME=/root",
		"NETLAB_CONFIG=/etc/netlab",
		"NETLAB_CONFIG_HOST=192.168.1.10",
		"NETLAB_CONFIG_PORT=9443",
		"NETLAB_CONFIG_USER=administrator",
		"NETLAB_CONFIG_TOKEN=S25GWP5P2247",
		"NETLAB_CONFIG_SERVER_HOSTNAME=netlab.example.com",
		"NETLAB_CONFIG_SSL=self_signed",
		"NETLAB_CONFIG_MESSAGE_BYTE_LIMIT=1048576",
	}, api.DefaultInfo())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info, jc.DeepEquals, api.Info{
		Host:             "192.168.1.10",
		Port:             9443,
		User:             "administrator",
		Token:            "S25GWP5P2247",
		ServerHostname:   "netlab.example.com",
		SSL:              api.SSLSelfSigned,
		SSLCiphers:       api.NetlabCiphers,
		MessageByteLimit: 1 << 20,
	})
	c.Check(info.Validate(), jc.ErrorIsNil)
}

func (s *infoSuite) TestInfoFromEnvNothingSet(c *gc.C) {
	base := validInfo()
	info, err := api.InfoFromEnv([]string{"PATH=/usr/bin", "NETLAB_CONFIG=/etc/netlab"}, base)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info, jc.DeepEquals, base)
}

func (s *infoSuite) TestInfoFromEnvIgnoresTimeout(c *gc.C) {
	info, err := api.InfoFromEnv([]string{"NETLAB_CONFIG_TIMEOUT=30", "NETLAB_CONFIG_USER=admin"}, api.DefaultInfo())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info.User, gc.Equals, "admin")
}

func (s *infoSuite) TestInfoFromEnvErrors(c *gc.C) {
	_, err := api.InfoFromEnv([]string{"NETLAB_CONFIG_PORT=https"}, api.DefaultInfo())
	c.Check(err, jc.ErrorIs, errors.NotValid)
	c.Check(err, gc.ErrorMatches, `(?s)reading NETLAB_CONFIG_\* environment: .*port.*`)

	_, err = api.InfoFromEnv([]string{"NETLAB_CONFIG_COLOUR=blue"}, api.DefaultInfo())
	c.Check(err, jc.ErrorIs, errors.NotValid)
	c.Check(err, gc.ErrorMatches, `(?s)reading NETLAB_CONFIG_\* environment: .*colour.*`)
}
