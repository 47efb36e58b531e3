package flagx

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	cfgFlags := []string{"-c", "--config"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate value", []string{"-c", "jobhub.json", "-a", "http://api"}, cfgFlags, []string{"-c", "jobhub.json"}},
		{"inline value", []string{"--config=jobhub.json", "-idle", "3m"}, cfgFlags, []string{"--config=jobhub.json"}},
		{"foreign flags and positionals dropped", []string{"-idle", "3m", "--warn=1s", "login"}, cfgFlags, []string{}},
		{"trailing flag without value", []string{"-c"}, cfgFlags, []string{"-c"}},
		{"next flag is not a value", []string{"-c", "-idle", "3m"}, cfgFlags, []string{"-c"}},
		{"inline value may start with dash", []string{"--config=-odd.json"}, cfgFlags, []string{"--config=-odd.json"}},
		{
			"several allowed flags keep their order",
			[]string{"-a", "http://api", "-i", "5", "-d", "state.db", "-log-level", "debug"},
			[]string{"-a", "-d"},
			[]string{"-a", "http://api", "-d", "state.db"},
		},
		{"repeated flag kept twice", []string{"-d", "one.db", "-d", "two.db"}, []string{"-d"}, []string{"-d", "one.db", "-d", "two.db"}},
		{"no args", nil, cfgFlags, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "/etc/jobhub.json"}, "/etc/jobhub.json"},
		{"long inline among other flags", []string{"-idle=2m", "-config=/etc/jobhub.json", "-a", "http://api"}, "/etc/jobhub.json"},
		{"absent", []string{"-idle", "2m", "-warn", "1s"}, ""},
		{"last one wins", []string{"-c", "a.json", "-config", "b.json"}, "b.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JSONConfigPath(tt.args))
		})
	}
}

func TestParseOwn_IgnoresForeignFlags(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	addr := fs.String("a", "default", "")
	idle := fs.Duration("idle", 0, "")

	err := ParseOwn(fs, []string{"-c", "conf.json", "-a", "http://api", "--idle=3m", "-zzz"})
	require.NoError(t, err)
	assert.Equal(t, "http://api", *addr)
	assert.Equal(t, 3*time.Minute, *idle)
}

func TestParseOwn_ReportsBadValue(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	fs.Duration("idle", 0, "")

	assert.Error(t, ParseOwn(fs, []string{"-idle", "soon"}))
}

func TestNames(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.String("a", "", "")
	fs.Int("i", 0, "")
	assert.Equal(t, []string{"-a", "--a", "-i", "--i"}, Names(fs))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
