package hashpath

import (
	"testing"
)

func TestDecode(t *testing.T) {
	base := Path{"base"}

	tests := []struct {
		name        string
		input       string
		wantPath    Path
		wantOptions Options
	}{
		{
			name:        "full hash",
			input:       "#/host/path/sub?a=1&b=2",
			wantPath:    Path{"host", "path", "sub"},
			wantOptions: OptionsFrom(map[string]string{"a": "1", "b": "2"}),
		},
		{name: "empty", input: "", wantPath: Path{}},
		{name: "only hash", input: "#", wantPath: Path{}},
		{name: "hash slash", input: "#/", wantPath: Path{}},
		{name: "absolute", input: "/horst", wantPath: Path{"horst"}},
		{name: "double slash", input: "//one", wantPath: Path{"one"}},
		{name: "double and trailing slash", input: "//one/", wantPath: Path{"one"}},
		{name: "triple slash", input: "///two", wantPath: Path{"two"}},
		{name: "escaped slash", input: "/slash/%2f", wantPath: Path{"slash", "/"}},
		{
			name:        "query only",
			input:       "?a=1",
			wantPath:    Path{},
			wantOptions: OptionsFrom(map[string]string{"a": "1"}),
		},
		{
			name:        "escaped query",
			input:       "?%3f=%3d",
			wantPath:    Path{},
			wantOptions: OptionsFrom(map[string]string{"?": "="}),
		},
		{
			name:        "empty key and value after hash",
			input:       "#?=",
			wantPath:    Path{},
			wantOptions: OptionsFrom(map[string]string{"": ""}),
		},
		{
			name:        "empty key and value",
			input:       "?=",
			wantPath:    Path{},
			wantOptions: OptionsFrom(map[string]string{"": ""}),
		},
		{
			name:        "key without value",
			input:       "?flag&x=1",
			wantPath:    Path{},
			wantOptions: OptionsFrom(map[string]string{"flag": "", "x": "1"}),
		},
		{
			name:        "empty terms skipped",
			input:       "?a=1&&b=2&",
			wantPath:    Path{},
			wantOptions: OptionsFrom(map[string]string{"a": "1", "b": "2"}),
		},
		{
			name:        "value split on first equals",
			input:       "?a=b=c",
			wantPath:    Path{},
			wantOptions: OptionsFrom(map[string]string{"a": "b=c"}),
		},
		{name: "relative", input: "relative/sub", wantPath: Path{"base", "relative", "sub"}},
		{name: "dot relative", input: "./relative/sub", wantPath: Path{"base", "relative", "sub"}},
		{name: "dot dot relative", input: "../relative/sub", wantPath: Path{"relative", "sub"}},
		{name: "dot dot absolute", input: "/top/../sub", wantPath: Path{"sub"}},
		{name: "dots absolute", input: "/top/./sub/./", wantPath: Path{"top", "sub"}},
		{name: "dot dot inside relative", input: "relative/../sub", wantPath: Path{"base", "sub"}},
		{name: "above root", input: "/../../a", wantPath: Path{"a"}},
		{name: "relative above root", input: "../../../a", wantPath: Path{"a"}},
		{name: "escaped dot is literal", input: "/%2E/%2e%2E", wantPath: Path{".", ".."}},
		{name: "plus is literal", input: "/a+b?q=c+d", wantPath: Path{"a+b"}, wantOptions: OptionsFrom(map[string]string{"q": "c+d"})},
		{name: "malformed escape passes through", input: "/100%/%zz%41", wantPath: Path{"100%", "%zzA"}},
		{name: "utf8 escape", input: "/p%C3%A4th", wantPath: Path{"päth"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got Options
			path := Decode(tc.input, base, &got)
			if !path.Equal(tc.wantPath) {
				t.Errorf("Decode(%q) path = %q, want %q", tc.input, path, tc.wantPath)
			}
			if path == nil {
				t.Errorf("Decode(%q) returned nil path, want empty", tc.input)
			}
			if !got.Equal(tc.wantOptions) {
				t.Errorf("Decode(%q) options = %v, want %v", tc.input, got, tc.wantOptions)
			}
		})
	}
}

func TestDecodeRepeatedKeys(t *testing.T) {
	var opts Options
	Decode("?a=1&b=x&a=2&a=3", nil, &opts)

	a, ok := opts.Get("a")
	if !ok {
		t.Fatal("expected option a")
	}
	if !a.IsMulti() {
		t.Fatal("expected a to be a list")
	}
	want := []string{"1", "2", "3"}
	got := a.Values()
	if len(got) != len(want) {
		t.Fatalf("a = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("a = %q, want %q", got, want)
		}
	}

	b, _ := opts.Get("b")
	if b.IsMulti() || b.String() != "x" {
		t.Errorf("b = %v, want single x", b)
	}
	if keys := opts.Keys(); len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys() = %q, want [a b]", keys)
	}
}

func TestDecodeTwoOccurrences(t *testing.T) {
	var opts Options
	Decode("?a=1&a=2", nil, &opts)

	want := Options{}
	want.Set("a", Multi("1", "2"))
	if !opts.Equal(want) {
		t.Errorf("options = %v, want %v", opts, want)
	}
}

func TestDecodeNilOptions(t *testing.T) {
	path := Decode("/a/b?x=1", nil, nil)
	if !path.Equal(Path{"a", "b"}) {
		t.Errorf("path = %q, want [a b]", path)
	}
}

func TestDecodeDoesNotModifyBase(t *testing.T) {
	base := make(Path, 2, 8)
	base[0], base[1] = "a", "b"

	Decode("../c", base, nil)
	Decode("d", base, nil)

	if !base.Equal(Path{"a", "b"}) {
		t.Errorf("base modified: %q", base)
	}
	if got := base[:3][2]; got != "" {
		t.Errorf("base backing array modified: %q", got)
	}
}

func TestEncode(t *testing.T) {
	multi := Options{}
	multi.Set("value", Multi("one", "two"))
	emptyList := Options{}
	emptyList.Set("value", Multi())
	emptyAndSet := Options{}
	emptyAndSet.Set("none", Multi())
	emptyAndSet.Set("a", Single("1"))

	tests := []struct {
		name    string
		path    Path
		options Options
		want    string
	}{
		{
			name:    "path and options",
			path:    Path{"host", "path", "sub"},
			options: OptionsFrom(map[string]string{"a": "1", "b": "2"}),
			want:    "/host/path/sub?a=1&b=2",
		},
		{name: "one segment", path: Path{"one"}, want: "/one"},
		{name: "two segments", path: Path{"one", "two"}, want: "/one/two"},
		{name: "slash in segment", path: Path{"slash", "/"}, want: "/slash/%2F"},
		{name: "single option", path: Path{"p"}, options: OptionsFrom(map[string]string{"a": "1"}), want: "/p?a=1"},
		{name: "escaped option", path: Path{"p"}, options: OptionsFrom(map[string]string{"?": "="}), want: "/p?%3F=%3D"},
		{name: "empty option", path: Path{"p"}, options: OptionsFrom(map[string]string{"": ""}), want: "/p?="},
		{name: "multi value", path: Path{"p"}, options: multi, want: "/p?value=one&value=two"},
		{name: "empty list", path: Path{"p"}, options: emptyList, want: "/p"},
		{name: "empty list and value", path: Path{"p"}, options: emptyAndSet, want: "/p?a=1"},
		{name: "root", path: Path{}, want: "/"},
		{name: "nil root", path: nil, want: "/"},
		{name: "root with options", path: Path{}, options: OptionsFrom(map[string]string{"x": "1"}), want: "/?x=1"},
		{name: "space and plus", path: Path{"a b+c"}, want: "/a%20b%2Bc"},
		{name: "dot segments", path: Path{".", ".."}, want: "/%2E/%2E%2E"},
		{name: "unreserved kept", path: Path{"A-z_0.9~"}, want: "/A-z_0.9~"},
		{name: "utf8", path: Path{"päth"}, want: "/p%C3%A4th"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Encode(tc.path, tc.options); got != tc.want {
				t.Errorf("Encode(%q, %v) = %q, want %q", tc.path, tc.options, got, tc.want)
			}
		})
	}
}

func TestEncodeJoined(t *testing.T) {
	opts := OptionsFrom(map[string]string{"a": "1"})
	if got := Encode(Joined("/already/%2F/formed"), opts); got != "/already/%2F/formed?a=1" {
		t.Errorf("Encode(Joined) = %q", got)
	}
	if got := Encode(Joined("rel"), Options{}); got != "rel" {
		t.Errorf("Encode(Joined(rel)) = %q, want verbatim", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		path    Path
		options Options
	}{
		{
			name:    "plain",
			path:    Path{"path", "sub"},
			options: OptionsFrom(map[string]string{"a": "1", "b": "2"}),
		},
		{
			name:    "unicode",
			path:    Path{"päth", "süb"},
			options: OptionsFrom(map[string]string{"a": "1", "b": "2"}),
		},
		{
			name:    "delimiters",
			path:    Path{"/=()?", "$%&/"},
			options: OptionsFrom(map[string]string{"": "=$&%", "b": "=2%34"}),
		},
		{
			name:    "dots and hash",
			path:    Path{".", "..", "#x", "a+b c"},
			options: OptionsFrom(map[string]string{"#": "?&", "sp ace": "+"}),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := Encode(tc.path, tc.options)

			var got Options
			path := Decode(encoded, Path{"ignored", "base"}, &got)
			if !path.Equal(tc.path) {
				t.Errorf("path %q -> %q -> %q", tc.path, encoded, path)
			}
			if !got.Equal(tc.options) {
				t.Errorf("options %v -> %q -> %v", tc.options, encoded, got)
			}
		})
	}
}

func TestRoundTripMulti(t *testing.T) {
	opts := Options{}
	opts.Set("tag", Multi("x", "y", "x"))
	opts.Set("q", Single("z"))

	encoded := Encode(Path{"list"}, opts)
	if encoded != "/list?tag=x&tag=y&tag=x&q=z" {
		t.Fatalf("Encode = %q", encoded)
	}

	var got Options
	Decode(encoded, nil, &got)
	if !got.Equal(opts) {
		t.Errorf("round trip = %v, want %v", got, opts)
	}
}

func TestCodecRoot(t *testing.T) {
	c := New(WithRoot("cockpit"))

	tests := []struct {
		name     string
		target   Target
		withRoot bool
		want     string
	}{
		{name: "joined gets root", target: Joined("path"), withRoot: true, want: "/cockpit/path"},
		{name: "joined with root unchanged", target: Joined("/cockpit/path"), withRoot: true, want: "/cockpit/path"},
		{name: "bare root unchanged", target: Joined("/cockpit"), withRoot: true, want: "/cockpit"},
		{name: "root-like prefix still prefixed", target: Joined("/cockpitx"), withRoot: true, want: "/cockpit/cockpitx"},
		{name: "segments get root", target: Path{"system", "logs"}, withRoot: true, want: "/cockpit/system/logs"},
		{name: "empty path gets root", target: Path{}, withRoot: true, want: "/cockpit/"},
		{name: "without root flag", target: Joined("path"), withRoot: false, want: "path"},
		{name: "segments without root flag", target: Path{"a"}, withRoot: false, want: "/a"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Encode(tc.target, Options{}, tc.withRoot); got != tc.want {
				t.Errorf("Encode(%v, withRoot=%v) = %q, want %q", tc.target, tc.withRoot, got, tc.want)
			}
		})
	}
}

func TestCodecRootDecode(t *testing.T) {
	c := New(WithRoot("/apps//admin/"))

	if got := c.Root(); !got.Equal(Path{"apps", "admin"}) {
		t.Fatalf("Root() = %q", got)
	}

	encoded := c.Encode(Path{"users", "42"}, Options{}, true)
	if encoded != "/apps/admin/users/42" {
		t.Fatalf("Encode = %q", encoded)
	}
	if got := c.Decode(encoded, nil, nil); !got.Equal(Path{"users", "42"}) {
		t.Errorf("Decode(%q) = %q, want [users 42]", encoded, got)
	}
	if got := c.Decode("/apps/other", nil, nil); !got.Equal(Path{"apps", "other"}) {
		t.Errorf("partial root should not be stripped, got %q", got)
	}
	if got := c.Decode("apps/admin/x", Path{}, nil); !got.Equal(Path{"apps", "admin", "x"}) {
		t.Errorf("relative input should not be stripped, got %q", got)
	}
}

func TestCodecEmptyRoot(t *testing.T) {
	c := New(WithRoot("//"))
	if c.Root() != nil {
		t.Errorf("Root() = %q, want nil", c.Root())
	}
	if got := c.Encode(Joined("path"), Options{}, true); got != "path" {
		t.Errorf("Encode = %q, want path", got)
	}
}
