package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// DefaultJava is the Java selection used when none is configured.
const DefaultJava = "auto"

// managedJavaKinds are the Java installations the backend can provision on
// its own. Any other value is treated as a path to a custom installation.
var managedJavaKinds = map[string]bool{
	"auto":     true,
	"system":   true,
	"adoptium": true,
	"zulu":     true,
	"graalvm":  true,
}

// IsManagedJava reports whether a Java selection names a backend-managed
// installation rather than a custom path.
func IsManagedJava(s string) bool {
	return managedJavaKinds[s]
}

// Args is a JVM or game argument list, configured either as a list or as a
// single space-joined string. The string form is shell-quoted on parse and
// is kept so the value serializes back in the shape it came in.
type Args struct {
	Values []string
	Joined bool
}

// IsZero reports whether no arguments are configured.
func (a Args) IsZero() bool {
	return len(a.Values) == 0
}

// Merge appends another argument list. The result uses the list form.
func (a *Args) Merge(other Args) {
	a.Values = append(a.Values, other.Values...)
	a.Joined = false
}

func (a *Args) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		values, err := shellquote.Split(joined)
		if err != nil {
			values = strings.Fields(joined)
		}
		*a = Args{Values: values, Joined: true}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected an argument string or list")
	}
	*a = Args{Values: list}
	return nil
}

func (a Args) MarshalJSON() ([]byte, error) {
	if a.Joined {
		return json.Marshal(shellquote.Join(a.Values...))
	}
	return json.Marshal(a.Values)
}

// LaunchArgs holds the JVM and game argument lists.
type LaunchArgs struct {
	JVM  Args
	Game Args
}

func (l LaunchArgs) isEmpty() bool {
	return l.JVM.IsZero() && l.Game.IsZero()
}

// Memory is the JVM memory setting: unset, a single value shared by the
// minimum and maximum, or an explicit min/max pair. Values are strings with
// a unit suffix, like "512m" or "2g".
type Memory struct {
	Min    string
	Max    string
	Single bool
}

// IsZero reports whether no memory setting is configured.
func (m Memory) IsZero() bool {
	return m.Min == "" && m.Max == ""
}

func (m *Memory) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = Memory{Min: single, Max: single, Single: true}
		return nil
	}

	var both struct {
		Min string `json:"min"`
		Max string `json:"max"`
	}
	if err := json.Unmarshal(data, &both); err != nil {
		return fmt.Errorf("expected a memory string or a {min, max} object")
	}
	*m = Memory{Min: both.Min, Max: both.Max}
	return nil
}

func (m Memory) MarshalJSON() ([]byte, error) {
	if m.Single {
		return json.Marshal(m.Min)
	}

	both := struct {
		Min string `json:"min,omitempty"`
		Max string `json:"max,omitempty"`
	}{m.Min, m.Max}
	return json.Marshal(both)
}

// ParseMemoryMB converts a memory string with a b, k, m, or g unit suffix to
// megabytes. Byte and kilobyte values round down.
func ParseMemoryMB(s string) (int64, bool) {
	if len(s) < 2 {
		return 0, false
	}

	suffix := s[len(s)-1]
	n, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}

	switch suffix {
	case 'b', 'B':
		return n / (1024 * 1024), true
	case 'k', 'K':
		return n / 1024, true
	case 'm', 'M':
		return n, true
	case 'g', 'G':
		return n * 1024, true
	default:
		return 0, false
	}
}

// Wrapper is a command that wraps the game process.
type Wrapper struct {
	Cmd  string   `json:"cmd"`
	Args []string `json:"args,omitempty"`
}

// Launch holds game launch options. Options this client does not edit
// (QuickPlay, Log4J handling, plugin additions) ride along in Extra.
type Launch struct {
	Args    LaunchArgs
	Memory  Memory
	Java    string
	Env     map[string]string
	Wrapper *Wrapper
	Extra   map[string]json.RawMessage
}

// IsZero reports whether no launch options are configured.
func (l Launch) IsZero() bool {
	return l.Args.isEmpty() && l.Memory.IsZero() && l.Java == "" &&
		len(l.Env) == 0 && l.Wrapper == nil && len(l.Extra) == 0
}

// Merge merges other launch options into this one, with the other side
// taking precedence. Argument lists and the environment extend; the memory
// setting, Java selection, and wrapper are replaced when set.
func (l *Launch) Merge(other *Launch) {
	if other == nil {
		return
	}

	l.Args.JVM.Merge(other.Args.JVM)
	l.Args.Game.Merge(other.Args.Game)
	if !other.Memory.IsZero() {
		l.Memory = other.Memory
	}
	if other.Java != "" {
		l.Java = other.Java
	}
	if len(other.Env) > 0 {
		if l.Env == nil {
			l.Env = make(map[string]string, len(other.Env))
		}
		for k, v := range other.Env {
			l.Env[k] = v
		}
	}
	if other.Wrapper != nil {
		w := *other.Wrapper
		l.Wrapper = &w
	}
	if len(other.Extra) > 0 {
		if l.Extra == nil {
			l.Extra = make(map[string]json.RawMessage, len(other.Extra))
		}
		for k, v := range other.Extra {
			l.Extra[k] = v
		}
	}
}

// Launch JSON keys known to the model.
const (
	keyLaunchArgs   = "args"
	keyLaunchMemory = "memory"
	keyLaunchJava   = "java"
	keyLaunchEnv    = "env"
	keyLaunchWrap   = "wrapper"
	keyArgsJVM      = "jvm"
	keyArgsGame     = "game"
)

func (l *Launch) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*l = Launch{}

	take := func(key string, dst any) error {
		raw, ok := fields[key]
		if !ok {
			return nil
		}
		delete(fields, key)
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("launch field %q: %w", key, err)
		}
		return nil
	}

	var args struct {
		JVM  Args `json:"jvm"`
		Game Args `json:"game"`
	}
	steps := []error{
		take(keyLaunchArgs, &args),
		take(keyLaunchMemory, &l.Memory),
		take(keyLaunchJava, &l.Java),
		take(keyLaunchEnv, &l.Env),
		take(keyLaunchWrap, &l.Wrapper),
	}
	for _, err := range steps {
		if err != nil {
			return err
		}
	}
	l.Args = LaunchArgs{JVM: args.JVM, Game: args.Game}

	if len(fields) > 0 {
		l.Extra = fields
	}
	return nil
}

func (l Launch) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(l.Extra)+5)
	for k, v := range l.Extra {
		out[k] = v
	}

	var firstErr error
	put := func(key string, v any) {
		raw, err := json.Marshal(v)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("launch field %q: %w", key, err)
			}
			return
		}
		out[key] = raw
	}

	if !l.Args.isEmpty() {
		args := make(map[string]Args, 2)
		if !l.Args.JVM.IsZero() {
			args[keyArgsJVM] = l.Args.JVM
		}
		if !l.Args.Game.IsZero() {
			args[keyArgsGame] = l.Args.Game
		}
		put(keyLaunchArgs, args)
	}
	if !l.Memory.IsZero() {
		put(keyLaunchMemory, l.Memory)
	}
	if l.Java != "" {
		put(keyLaunchJava, l.Java)
	}
	if len(l.Env) > 0 {
		put(keyLaunchEnv, l.Env)
	}
	if l.Wrapper != nil {
		put(keyLaunchWrap, l.Wrapper)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return json.Marshal(out)
}
