package packager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/pkg/languages"
	"github.com/mini-maxit/runner/utils"
)

type Packager interface {
	// PrepareUnit materializes the program for one test case and writes it into a fresh,
	// private unit directory. The caller owns the unit and must Release it.
	PrepareUnit(
		lang languages.LanguageType,
		entryPoint string,
		code string,
		input json.RawMessage,
	) (*ExecutionUnit, error)
}

// ExecutionUnit is the single-use workspace of one sandboxed run: a directory holding exactly
// one source file. Units are never shared between test cases or submissions.
type ExecutionUnit struct {
	ID         string
	Dir        string
	SourcePath string
	SourceFile string
	Source     string
	Language   languages.LanguageType

	releaseOnce sync.Once
	releaseErr  error
}

// Release removes the unit directory. Safe to call more than once.
func (u *ExecutionUnit) Release() error {
	u.releaseOnce.Do(func() {
		u.releaseErr = utils.RemoveIO(u.Dir, true, false)
	})
	return u.releaseErr
}

type packager struct {
	logger      *zap.SugaredLogger
	exchangeDir string
}

func NewPackager(exchangeDir string) Packager {
	return &packager{
		logger:      logger.NewNamedLogger("packager"),
		exchangeDir: exchangeDir,
	}
}

// newUnitID combines a timestamp with a random uuid so ids sort by creation time
// and never collide across concurrent runs.
func newUnitID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + uuid.NewString()
}

func (p *packager) PrepareUnit(
	lang languages.LanguageType,
	entryPoint string,
	code string,
	input json.RawMessage,
) (*ExecutionUnit, error) {
	source, err := Materialize(lang, entryPoint, code, input)
	if err != nil {
		return nil, err
	}

	sourceFile, err := lang.GetSourceFileName()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p.exchangeDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create exchange directory: %w", err)
	}

	id := newUnitID()
	unitDir := filepath.Join(p.exchangeDir, id)
	// Mkdir, not MkdirAll: an existing directory means an id collision and must fail.
	if err := os.Mkdir(unitDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create unit directory: %w", err)
	}
	// Mkdir is subject to umask; the sandbox user must still be able to enter the directory.
	if err := os.Chmod(unitDir, 0o755); err != nil {
		_ = utils.RemoveIO(unitDir, true, true)
		return nil, fmt.Errorf("failed to set unit directory mode: %w", err)
	}

	sourcePath := filepath.Join(unitDir, sourceFile)
	if err := os.WriteFile(sourcePath, []byte(source), 0o644); err != nil {
		_ = utils.RemoveIO(unitDir, true, true)
		return nil, fmt.Errorf("failed to write source file: %w", err)
	}
	if err := os.Chmod(sourcePath, 0o644); err != nil {
		_ = utils.RemoveIO(unitDir, true, true)
		return nil, fmt.Errorf("failed to set source file mode: %w", err)
	}

	p.logger.Debugf("[UnitID: %s] Prepared %s unit at %s", id, lang, unitDir)

	return &ExecutionUnit{
		ID:         id,
		Dir:        unitDir,
		SourcePath: sourcePath,
		SourceFile: sourceFile,
		Source:     source,
		Language:   lang,
	}, nil
}
