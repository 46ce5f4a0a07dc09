package ownership

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	loggerMissingMessageConstant      = "logger not configured"
	entrySkippedLogMessageConstant    = "ownership change failed, continuing"
	walkEntryFailedLogMessageConstant = "directory entry inaccessible, continuing"
	logFieldEntryPathConstant         = "entry_path"
	unchangedOwnerIdentifierConstant  = -1
)

// ErrLoggerNotConfigured indicates the normalizer was built without a logger.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// Ownership names the target owner for the walk. A nil identifier leaves that
// dimension of ownership untouched.
type Ownership struct {
	UserIdentifier  *int
	GroupIdentifier *int
}

// Configured reports whether the ownership carries at least one target identifier.
func (ownership Ownership) Configured() bool {
	return ownership.UserIdentifier != nil || ownership.GroupIdentifier != nil
}

// ChangeOwnerFunc applies an owner change to a single filesystem entry.
type ChangeOwnerFunc func(entryPath string, userIdentifier int, groupIdentifier int) error

// Normalizer recursively applies ownership to a directory tree.
type Normalizer struct {
	logger      *zap.Logger
	changeOwner ChangeOwnerFunc
}

// NewNormalizer constructs a Normalizer backed by os.Chown.
func NewNormalizer(logger *zap.Logger) (*Normalizer, error) {
	return NewNormalizerWithChangeOwner(logger, os.Chown)
}

// NewNormalizerWithChangeOwner constructs a Normalizer with a custom owner-change function.
func NewNormalizerWithChangeOwner(logger *zap.Logger, changeOwner ChangeOwnerFunc) (*Normalizer, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if changeOwner == nil {
		changeOwner = os.Chown
	}
	return &Normalizer{logger: logger, changeOwner: changeOwner}, nil
}

// Normalize walks the tree rooted at rootPath and applies the requested
// ownership to every entry. The walk is best effort: entries that cannot be
// inspected or chowned are logged at debug level and skipped. Symbolic links
// are never chowned; their targets receive ownership when the walk visits
// them.
func (normalizer *Normalizer) Normalize(rootPath string, targetOwnership Ownership) {
	if !targetOwnership.Configured() {
		return
	}

	userIdentifier := unchangedOwnerIdentifierConstant
	if targetOwnership.UserIdentifier != nil {
		userIdentifier = *targetOwnership.UserIdentifier
	}
	groupIdentifier := unchangedOwnerIdentifierConstant
	if targetOwnership.GroupIdentifier != nil {
		groupIdentifier = *targetOwnership.GroupIdentifier
	}

	_ = filepath.WalkDir(rootPath, func(entryPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			normalizer.logger.Debug(walkEntryFailedLogMessageConstant, zap.String(logFieldEntryPathConstant, entryPath), zap.Error(walkError))
			return nil
		}

		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if changeError := normalizer.changeOwner(entryPath, userIdentifier, groupIdentifier); changeError != nil {
			normalizer.logger.Debug(entrySkippedLogMessageConstant, zap.String(logFieldEntryPathConstant, entryPath), zap.Error(changeError))
		}
		return nil
	})
}
