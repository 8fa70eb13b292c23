package schema

import (
	"time"

	"healconf/codec"
	"healconf/tree"
)

type subSection struct {
	Integral  int64
	Character tree.Char
}

type example struct {
	Opening    string
	Hello      string
	Enabled    bool
	SubSection subSection
}

type server struct {
	Host    string        `default:"localhost" comment:"listen address"`
	Port    int           `default:"8080" range:"1,65535" comment-inline:"tcp"`
	Timeout time.Duration `default:"30s"`
	Tags    codec.Set[string]
	Limits  map[string]int
	TLS     *tlsConfig
}

type tlsConfig struct {
	Cert string
	Key  string
}

type base struct {
	ID string
}

type left struct {
	base
	Left int
}

type right struct {
	base
	Right int
}

type diamond struct {
	left
	right
}

type named struct {
	Name string
	A    int
}

type alsoNamed struct {
	Name string
	B    int
}

type covariant struct {
	named
	alsoNamed
}

type override struct {
	base
	ID int `default:"7"`
}

type withFallback struct {
	Port     int
	Name     *string
	Replicas int
	Hook     func() string
}

func (withFallback) DefaultPort() int { return 8080 }

func (withFallback) DefaultName() (string, bool) { return "", false }

func (withFallback) DefaultReplicas() *int { return nil }

type tagged struct {
	Name     string  `conf:"display-name"`
	Nickname string  `conf:",optional"`
	Ratio    float64 `conf:"ratio,optional" default:"0.5"`
	Ignored  int     `conf:"-"`
	internal int
}

type linked struct {
	Name string
	Next *linked
}

type ping struct {
	Pongs []pong
}

type pong struct {
	Ping ping
}

type hidden struct {
	secret string `conf:"secret"`
}

type parameterized struct {
	Lookup func(key string) string
}

type unsupported struct {
	Events chan int
}

type badDefault struct {
	Port int `default:"abc"`
}

type badRange struct {
	Name string `range:"1,2"`
}

// opaque is claimed by a custom handler deferring to an unsupported type.
type opaque struct {
	Raw string
}

type deferred struct {
	Item opaque
}

type clash struct {
	Host    string `conf:"Address"`
	Address string
}

type badFallback struct {
	Port int
}

func (badFallback) DefaultPort() string { return "8080" }
