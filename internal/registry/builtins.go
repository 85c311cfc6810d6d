package registry

import (
	"os"
	"path/filepath"

	"github.com/arjunvg/devclean/internal/model"
)

// basePlugin implements the boring parts of Plugin for the common case:
// marker presence alone is sufficient (no content inspection needed).
type basePlugin struct {
	id      string
	kind    model.ProjectKind
	markers []string
	dirs    []string
}

func (b basePlugin) ID() string                 { return b.id }
func (b basePlugin) Name() string               { return b.kind.DisplayName }
func (b basePlugin) Kind() model.ProjectKind     { return b.kind }
func (b basePlugin) MarkerFiles() []string       { return b.markers }
func (b basePlugin) CleanableDirs() []string     { return b.dirs }
func (b basePlugin) Detect(string, []os.DirEntry) bool { return true }

func simple(id, display, icon string, markers, dirs []string) Plugin {
	return basePlugin{
		id: id,
		kind: model.ProjectKind{
			ID:            id,
			DisplayName:   display,
			Icon:          icon,
			MarkerFiles:   markers,
			CleanableDirs: dirs,
		},
		markers: markers,
		dirs:    dirs,
	}
}

// pythonPlugin distinguishes a Poetry project (pyproject.toml with a
// [tool.poetry] table) from a plain PEP 517 project, and a plain
// setup.py project, by lightweight content inspection — the one case
// spec.md §4.1 calls out explicitly as needing Detect to do more than
// check marker presence.
type pythonPlugin struct {
	basePlugin
	requireSubstring string // empty = no content check needed
}

func (p pythonPlugin) Detect(dir string, entries []os.DirEntry) bool {
	if p.requireSubstring == "" {
		return true
	}
	for _, e := range entries {
		if e.Name() != "pyproject.toml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return false
		}
		return contains(string(data), p.requireSubstring)
	}
	return false
}

func contains(haystack, needle string) bool {
	return len(needle) == 0 || indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	n, m := len(haystack), len(needle)
	for i := 0; i+m <= n; i++ {
		if haystack[i:i+m] == needle {
			return i
		}
	}
	return -1
}

// builtinPlugins returns the ~30 built-in project kinds, grounded on
// the teacher's per-ecosystem cleaners (internal/cleaner/*.go): each
// plugin's markers and cleanable dirs mirror the concrete paths those
// cleaners hard-coded, generalized from "well-known absolute path
// under $HOME" to "marker file + relative cleanable dir" so the
// scanner can discover arbitrary projects rather than a fixed list of
// global cache directories.
func builtinPlugins() []Plugin {
	return []Plugin{
		// --- Frontend (teacher: internal/cleaner/frontend.go) ---
		simple("nodejs", "Node.js", "⬢",
			[]string{"package.json"},
			[]string{"node_modules", "dist", "build", ".next", ".nuxt", ".parcel-cache", ".turbo"}),
		simple("deno", "Deno", "\U0001f995",
			[]string{"deno.json", "deno.jsonc"},
			[]string{".deno_cache"}),

		// --- Backend (teacher: internal/cleaner/backend.go) ---
		pythonPlugin{basePlugin: basePlugin{
			id: "python-poetry",
			kind: model.ProjectKind{
				ID: "python-poetry", DisplayName: "Python (Poetry)", Icon: "\U0001f40d",
				MarkerFiles:   []string{"pyproject.toml"},
				CleanableDirs: []string{"__pycache__", "**/__pycache__", ".pytest_cache", ".mypy_cache", ".tox", ".venv"},
			},
			markers: []string{"pyproject.toml"},
			dirs:    []string{"__pycache__", "**/__pycache__", ".pytest_cache", ".mypy_cache", ".tox", ".venv"},
		}, requireSubstring: "[tool.poetry]"},
		simple("python", "Python", "\U0001f40d",
			[]string{"setup.py", "requirements.txt", "Pipfile"},
			[]string{"__pycache__", "**/__pycache__", ".pytest_cache", ".mypy_cache", ".tox", "build", "dist", "*.egg-info"}),
		simple("rust", "Rust", "\U0001f980",
			[]string{"Cargo.toml"},
			[]string{"target"}),
		simple("go", "Go", "\U0001f439",
			[]string{"go.mod"},
			[]string{"bin"}),
		simple("java-maven", "Java (Maven)", "☕",
			[]string{"pom.xml"},
			[]string{"target"}),
		simple("java-gradle", "Java (Gradle)", "☕",
			[]string{"build.gradle", "build.gradle.kts"},
			[]string{"build", ".gradle"}),
		simple("dotnet", ".NET", "\U0001f537",
			[]string{"*.csproj", "*.sln"},
			[]string{"bin", "obj"}),
		simple("php-composer", "PHP (Composer)", "\U0001f418",
			[]string{"composer.json"},
			[]string{"vendor"}),
		simple("ruby-bundler", "Ruby (Bundler)", "\U0001f48e",
			[]string{"Gemfile"},
			[]string{".bundle", "vendor/bundle"}),
		simple("elixir", "Elixir", "\U0001f4a7",
			[]string{"mix.exs"},
			[]string{"_build", "deps"}),
		simple("haskell-stack", "Haskell (Stack)", "\U0001f341",
			[]string{"stack.yaml"},
			[]string{".stack-work"}),
		simple("scala-sbt", "Scala (sbt)", "\U0001f53a",
			[]string{"build.sbt"},
			[]string{"target", "project/target"}),
		simple("zig", "Zig", "⚡",
			[]string{"build.zig"},
			[]string{"zig-cache", "zig-out"}),

		// --- Mobile (teacher: internal/cleaner/mobile.go) ---
		simple("xcode", "Xcode / iOS", "\U0001f34e",
			[]string{"*.xcodeproj", "*.xcworkspace"},
			[]string{"DerivedData", "build"}),
		simple("cocoapods", "CocoaPods", "\U0001f525",
			[]string{"Podfile"},
			[]string{"Pods"}),
		simple("android-gradle", "Android", "\U0001f916",
			[]string{"build.gradle", "settings.gradle"},
			[]string{"build", ".gradle", "app/build"}),
		simple("flutter", "Flutter", "\U0001f426",
			[]string{"pubspec.yaml"},
			[]string{".dart_tool", "build", ".flutter-plugins-dependencies"}),
		simple("swiftpm", "Swift Package Manager", "\U0001f426",
			[]string{"Package.swift"},
			[]string{".build"}),

		// --- DevOps / infra (teacher: internal/cleaner/devops.go) ---
		simple("terraform", "Terraform", "\U0001f3d7",
			[]string{"*.tf"},
			[]string{".terraform", ".terraform.lock.hcl"}),
		simple("helm", "Helm", "⎈",
			[]string{"Chart.yaml"},
			[]string{"charts", ".helm"}),
		simple("cmake", "CMake / C++", "⚙",
			[]string{"CMakeLists.txt"},
			[]string{"build", "cmake-build-debug", "cmake-build-release"}),
		simple("bazel", "Bazel", "\U0001f9f0",
			[]string{"WORKSPACE", "WORKSPACE.bazel", "MODULE.bazel"},
			[]string{"bazel-bin", "bazel-out", "bazel-testlogs"}),

		// --- Data / ML (teacher: internal/cleaner/dataml.go) ---
		simple("conda", "Conda", "\U0001f40d",
			[]string{"environment.yml", "environment.yaml"},
			[]string{".conda"}),
		simple("jupyter", "Jupyter", "\U0001f4d3",
			[]string{"*.ipynb"},
			[]string{".ipynb_checkpoints"}),

		// --- Other build systems present in the corpus ---
		simple("make", "Make / C", "\U0001f6e0",
			[]string{"Makefile"},
			[]string{"build", "obj", "out"}),
		simple("julia", "Julia", "\U0001f7e3",
			[]string{"Project.toml", "Manifest.toml"},
			[]string{".julia_cache"}),
		simple("r-lang", "R", "\U0001f4ca",
			[]string{"DESCRIPTION", "renv.lock"},
			[]string{"renv/library", ".Rproj.user"}),
		simple("unity", "Unity", "\U0001f3ae",
			[]string{"Assets", "ProjectSettings"},
			[]string{"Library", "Temp", "obj", "Logs"}),
	}
}
