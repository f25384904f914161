package languages

import (
	"path"
	"sort"
	"strings"

	"github.com/mini-maxit/runner/pkg/constants"
	"github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/messages"
)

type LanguageType int

const (
	PYTHON LanguageType = iota + 1
)

// runtime describes the pre-built image a language runs in. The image is built once from
// Dockerfile when it is missing and reused by every execution afterwards.
type runtime struct {
	Version    string
	Extension  string
	SourceFile string
	Dockerfile string
	RunCmd     []string
}

var LanguageTypeMap = map[string]LanguageType{
	"PYTHON": PYTHON,
}

var runtimes = map[LanguageType]runtime{
	PYTHON: {
		Version:    "3.12",
		Extension:  "py",
		SourceFile: "main.py",
		Dockerfile: `FROM python:3.12-alpine
RUN addgroup -g 1000 runner && adduser -D -u 1000 -G runner runner
USER runner
WORKDIR /sandbox
CMD ["python3", "-I", "-B", "/sandbox/main.py"]
`,
		RunCmd: []string{"python3", "-I", "-B"},
	},
}

func (lt LanguageType) String() string {
	for key, value := range LanguageTypeMap {
		if value == lt {
			return key
		}
	}
	return ""
}

// GetDockerImage returns the versioned runtime image tag, e.g. mini-maxit/runner-python:3.12.
func (lt LanguageType) GetDockerImage() (string, error) {
	rt, ok := runtimes[lt]
	if !ok {
		return "", errors.ErrUnsupportedLanguage
	}
	return constants.RuntimeImagePrefix + "-" + strings.ToLower(lt.String()) + ":" + rt.Version, nil
}

func (lt LanguageType) GetDockerfile() (string, error) {
	rt, ok := runtimes[lt]
	if !ok {
		return "", errors.ErrUnsupportedLanguage
	}
	return rt.Dockerfile, nil
}

// GetSourceFileName is the name of the single source file inside the sandbox directory.
func (lt LanguageType) GetSourceFileName() (string, error) {
	rt, ok := runtimes[lt]
	if !ok {
		return "", errors.ErrUnsupportedLanguage
	}
	return rt.SourceFile, nil
}

// GetRunCommand returns the fixed command that runs the mounted source file.
func (lt LanguageType) GetRunCommand() ([]string, error) {
	rt, ok := runtimes[lt]
	if !ok {
		return nil, errors.ErrUnsupportedLanguage
	}
	cmd := make([]string, 0, len(rt.RunCmd)+1)
	cmd = append(cmd, rt.RunCmd...)
	return append(cmd, path.Join(constants.SandboxDirPath, rt.SourceFile)), nil
}

func ParseLanguageType(s string) (LanguageType, error) {
	if lt, ok := LanguageTypeMap[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return lt, nil
	}
	return 0, errors.ErrUnsupportedLanguage
}

func GetSupportedLanguages() []LanguageType {
	langs := make([]LanguageType, 0, len(LanguageTypeMap))
	for _, lt := range LanguageTypeMap {
		langs = append(langs, lt)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

func GetSupportedLanguagesSpec() []messages.LanguageSpec {
	specs := make([]messages.LanguageSpec, 0, len(LanguageTypeMap))
	for _, lt := range GetSupportedLanguages() {
		rt := runtimes[lt]
		specs = append(specs, messages.LanguageSpec{
			LanguageName: strings.ToLower(lt.String()),
			Versions:     []string{rt.Version},
			Extension:    rt.Extension,
		})
	}
	return specs
}
