package cmd_test

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/maps"

	"github.com/loxlang/golox/cmd"
)

const testDir = "testdata"

var (
	expectedOutputPattern       = regexp.MustCompile(`// expect: ?(.*)`)
	expectedErrorPattern        = regexp.MustCompile(`// (Error.*)`)
	errorLinePattern            = regexp.MustCompile(`// \[line (\d+)\] (Error.*)`)
	expectedRuntimeErrorPattern = regexp.MustCompile(`// expect runtime error: (.+)`)
	syntaxErrorPattern          = regexp.MustCompile(`\[.*line (\d+)\] (Error.+)`)
	stackTracePattern           = regexp.MustCompile(`\[line (\d+)\]`)
	nonTestPattern              = regexp.MustCompile(`// nontest`)
)

// Suite maps path prefixes under testdata to a state, "pass" or "skip".
// The most specific prefix wins.
type Suite struct {
	name  string
	args  []string
	tests map[string]string
}

var allSuites = map[string]*Suite{}

func init() {
	defineTestSuites()
}

func TestScripts(t *testing.T) {
	names := maps.Keys(allSuites)
	slices.Sort(names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			runSuite(t, allSuites[name])
		})
	}
}

func runSuite(t *testing.T, suite *Suite) {
	t.Helper()
	require.DirExists(t, testDir)

	var files []string
	err := filepath.Walk(testDir, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() || filepath.Ext(path) != ".lox" {
			return nil
		}
		files = append(files, filepath.ToSlash(path))
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		runTest(t, suite, file)
	}
}

func runTest(t *testing.T, suite *Suite, path string) {
	test := &Test{path: path, suite: suite, expectedErrors: make(map[string]string)}

	t.Run(strings.TrimPrefix(path, testDir+"/"), func(t *testing.T) {
		t.Parallel()
		test.t = t
		if !test.parse() {
			t.Skip("skipped by suite")
		}
		test.run()
	})
}

type ExpectedOutput struct {
	line   int
	output string
}

type Test struct {
	t                    *testing.T
	path                 string
	suite                *Suite
	expectedOutput       []ExpectedOutput
	expectedErrors       map[string]string
	expectedRuntimeError string
	runtimeErrorLine     int
	expectedExitCode     int
}

func (t *Test) parse() bool {
	parts := strings.Split(t.path, "/")
	var subpath string
	var state string

	// No early exit, more specific paths override more general ones.
	for _, part := range parts {
		if subpath != "" {
			subpath += "/"
		}
		subpath += part

		if val, ok := t.suite.tests[subpath]; ok {
			state = val
		}
	}

	require.NotEmptyf(t.t, state, "Unknown test state for '%s'", t.path)
	if state == "skip" {
		return false
	}

	lines, err := os.ReadFile(t.path)
	require.NoError(t.t, err)

	for lineNum, line := range strings.Split(string(lines), "\n") {
		lineNum++

		if nonTestPattern.MatchString(line) {
			return false
		}

		if match := expectedOutputPattern.FindStringSubmatch(line); match != nil {
			t.expectedOutput = append(t.expectedOutput, ExpectedOutput{line: lineNum, output: match[1]})
			continue
		}

		if match := expectedErrorPattern.FindStringSubmatch(line); match != nil {
			msg := fmt.Sprintf("[%d] %s", lineNum, match[1])
			t.expectedErrors[msg] = msg
			t.expectedExitCode = cmd.ExitDataErr
			continue
		}

		if match := errorLinePattern.FindStringSubmatch(line); match != nil {
			msg := fmt.Sprintf("[%s] %s", match[1], match[2])
			t.expectedErrors[msg] = msg
			t.expectedExitCode = cmd.ExitDataErr
			continue
		}

		if match := expectedRuntimeErrorPattern.FindStringSubmatch(line); match != nil {
			t.runtimeErrorLine = lineNum
			t.expectedRuntimeError = match[1]
			t.expectedExitCode = cmd.ExitSoftware
		}
	}

	require.Falsef(t.t, len(t.expectedErrors) > 0 && t.expectedRuntimeError != "",
		"%s: cannot expect both compile and runtime errors", t.path)

	return true
}

func (t *Test) run() {
	stdout := new(strings.Builder)
	stderr := new(strings.Builder)

	args := append(slices.Clone(t.suite.args), t.path)
	exitCode := cmd.NewLoxApp(strings.NewReader(""), stdout, stderr).Main(args)

	outputLines := strings.Split(stdout.String(), "\n")
	errorLines := strings.Split(withoutLogRecords(stderr.String()), "\n")

	if t.expectedRuntimeError != "" {
		t.validateRuntimeError(errorLines)
	} else {
		t.validateCompileErrors(errorLines)
	}
	t.validateExitCode(exitCode, errorLines)
	t.validateOutput(outputLines)
}

func (t *Test) validateRuntimeError(errorLines []string) {
	if len(errorLines) < 2 {
		t.Errorf("Expected runtime error '%s' and got none.", t.expectedRuntimeError)
		return
	}

	if errorLines[0] != t.expectedRuntimeError {
		t.Errorf("Expected runtime error '%s' and got: %s", t.expectedRuntimeError, errorLines[0])
		return
	}

	var stackLine int
	for _, line := range errorLines[1:] {
		if match := stackTracePattern.FindStringSubmatch(line); match != nil {
			stackLine, _ = strconv.Atoi(match[1])
			break
		}
	}

	if stackLine == 0 {
		t.Errorf("Expected stack trace and got: %s", errorLines[1:])
	} else if stackLine != t.runtimeErrorLine {
		t.Errorf("Expected runtime error on line %d but was on line %d.", t.runtimeErrorLine, stackLine)
	}
}

func (t *Test) validateCompileErrors(errorLines []string) {
	foundErrors := map[string]bool{}
	unexpectedCount := 0

	for _, line := range errorLines {
		if match := syntaxErrorPattern.FindStringSubmatch(line); match != nil {
			errorMsg := fmt.Sprintf("[%s] %s", match[1], match[2])
			if _, ok := t.expectedErrors[errorMsg]; ok {
				foundErrors[errorMsg] = true
			} else {
				if unexpectedCount < 10 {
					t.Errorf("Unexpected error: %s", line)
				}
				unexpectedCount++
			}
		} else if line != "" {
			if unexpectedCount < 10 {
				t.Errorf("Unexpected output on stderr: %s", line)
			}
			unexpectedCount++
		}
	}

	if unexpectedCount > 10 {
		t.Errorf("(truncated %d more...)", unexpectedCount-10)
	}

	for errorMsg := range t.expectedErrors {
		if !foundErrors[errorMsg] {
			t.Errorf("Missing expected error: %s", errorMsg)
		}
	}
}

func (t *Test) validateExitCode(exitCode int, errorLines []string) {
	if exitCode == t.expectedExitCode {
		return
	}

	if len(errorLines) > 10 {
		errorLines = append(errorLines[:10], "(truncated...)")
	}

	t.Errorf("Expected return code %d and got %d. Stderr: %v", t.expectedExitCode, exitCode, errorLines)
}

func (t *Test) validateOutput(outputLines []string) {
	if len(outputLines) > 0 && outputLines[len(outputLines)-1] == "" {
		outputLines = outputLines[:len(outputLines)-1]
	}

	if len(outputLines) > len(t.expectedOutput) {
		t.Errorf("Got output '%s' when none was expected.", outputLines[len(t.expectedOutput)])
		return
	}

	for i, line := range outputLines {
		expected := t.expectedOutput[i]
		if expected.output != line {
			t.Errorf("Expected output '%s' on line %d and got '%s'.", expected.output, expected.line, line)
		}
	}

	for i := len(outputLines); i < len(t.expectedOutput); i++ {
		expected := t.expectedOutput[i]
		t.Errorf("Missing expected output '%s' on line %d.", expected.output, expected.line)
	}
}

func (t *Test) Errorf(format string, args ...any) {
	t.t.Helper()
	t.t.Errorf(format, args...)
}

func defineTestSuites() {
	suite := func(name string, args []string, tests ...map[string]string) {
		suiteTests := map[string]string{}
		for _, test := range tests {
			maps.Copy(suiteTests, test)
		}
		allSuites[name] = &Suite{name: name, args: args, tests: suiteTests}
	}

	// Benchmarks print timings, they have no stable output.
	noBenchmarks := map[string]string{
		"testdata/benchmark": "skip",
	}

	suite("golox",
		nil,
		map[string]string{"testdata": "pass"},
		noBenchmarks,
	)

	// A shallow call stack only changes where recursion gives up.
	suite("golox-shallow-stack",
		[]string{"--max-call-depth", "512"},
		map[string]string{"testdata": "pass"},
		noBenchmarks,
	)
}

// BenchmarkScripts runs the benchmark scripts in-process.
func BenchmarkScripts(b *testing.B) {
	benchmarks, err := filepath.Glob(filepath.Join(testDir, "benchmark", "*.lox"))
	require.NoError(b, err)

	for _, bench := range benchmarks {
		b.Run(filepath.Base(bench), func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				if code := cmd.NewLoxApp(strings.NewReader(""), io.Discard, io.Discard).Main([]string{bench}); code != cmd.ExitOK {
					b.Fatalf("%s exited with %d", bench, code)
				}
			}
		})
	}
}
