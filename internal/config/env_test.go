package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnv(t *testing.T) {
	ResetEnv()
	t.Setenv("L5KTUNE_SETTINGS", "/tmp/settings.yaml")
	t.Setenv("L5KTUNE_LOG_LEVEL", "debug")
	t.Setenv("L5KTUNE_NO_COLOR", "1")
	defer ResetEnv()

	env := Env()
	assert.Equal(t, "/tmp/settings.yaml", env.SettingsFile)
	assert.Equal(t, "debug", env.LogLevel)
	assert.True(t, env.NoColor)
}

func TestEnvDefaults(t *testing.T) {
	ResetEnv()
	t.Setenv("L5KTUNE_LOG_LEVEL", "")
	t.Setenv("L5KTUNE_NO_COLOR", "")
	t.Setenv("NO_COLOR", "")
	defer ResetEnv()

	env := Env()
	assert.Equal(t, "info", env.LogLevel)
	assert.False(t, env.NoColor)
}

func TestEnvSingleton(t *testing.T) {
	ResetEnv()
	defer ResetEnv()
	assert.Same(t, Env(), Env())
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	ResetEnv()
	t.Setenv("L5KTUNE_INDENT", "")
	defer ResetEnv()

	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "\t", s.Indent)
	assert.Empty(t, s.LocalTagPlaceholder)
}

func TestLoadSettings_ReadsYAML(t *testing.T) {
	ResetEnv()
	t.Setenv("L5KTUNE_INDENT", "")
	defer ResetEnv()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "indent: \"  \"\nlocal_tag_placeholder: \"__PlaceHolder : BOOL ();\"\nextra_base_types:\n  - TIMER\n  - COUNTER\nno_color: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "  ", s.Indent)
	assert.Equal(t, "__PlaceHolder : BOOL ();", s.LocalTagPlaceholder)
	assert.Equal(t, []string{"TIMER", "COUNTER"}, s.ExtraBaseTypes)
	assert.True(t, s.NoColor)
}

func TestLoadSettings_EnvOverridesIndent(t *testing.T) {
	ResetEnv()
	t.Setenv("L5KTUNE_INDENT", "    ")
	defer ResetEnv()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indent: \"\t\"\n"), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "    ", s.Indent)
}

func TestLoadSettings_BadYAML(t *testing.T) {
	ResetEnv()
	defer ResetEnv()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not yaml: ["), 0644))
	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	in := Settings{Indent: "  ", ExtraBaseTypes: []string{"TIMER"}}
	require.NoError(t, SaveSettings(path, in))

	ResetEnv()
	t.Setenv("L5KTUNE_INDENT", "")
	defer ResetEnv()
	out, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, in.Indent, out.Indent)
	assert.Equal(t, in.ExtraBaseTypes, out.ExtraBaseTypes)
}
