package validate

import (
	"fmt"
	"os"
	"strings"

	"github.com/okriens/mirrormate/internal/platform"
	"github.com/okriens/mirrormate/pkg/models"
)

// DefaultDepthWarnThreshold is the source depth above which the validator
// flags a pair as suspicious. Very deep sources are the usual symptom of
// accidentally pointing a migration at a self-referential backup tree.
const DefaultDepthWarnThreshold = 15

// Validator checks candidate source/destination pairs.
// Pure: it never creates directories or touches the destination.
type Validator struct {
	// DepthWarnThreshold is the advisory source-depth limit;
	// zero means DefaultDepthWarnThreshold
	DepthWarnThreshold int
}

// New returns a validator with default thresholds
func New() *Validator {
	return &Validator{DepthWarnThreshold: DefaultDepthWarnThreshold}
}

// Validate resolves and checks a candidate pair, returning either a
// canonicalized MigrationPair or a *models.ValidationError.
func (v *Validator) Validate(source, dest string) (*models.MigrationPair, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &models.ValidationError{Reason: models.BlankInput, Path: source, Detail: "source is blank"}
	}
	if strings.TrimSpace(dest) == "" {
		return nil, &models.ValidationError{Reason: models.BlankInput, Path: dest, Detail: "destination is blank"}
	}

	if _, err := os.Stat(source); err != nil {
		return nil, &models.ValidationError{Reason: models.SourceMissing, Path: source, Detail: err.Error()}
	}

	srcAbs, err := platform.Canonicalize(source)
	if err != nil {
		return nil, &models.ValidationError{Reason: models.SourceMissing, Path: source, Detail: err.Error()}
	}

	// Destination may not exist yet; Canonicalize falls back to the
	// normalized absolute form in that case
	dstAbs, err := platform.Canonicalize(dest)
	if err != nil {
		return nil, &models.ValidationError{Reason: models.BlankInput, Path: dest, Detail: err.Error()}
	}

	if platform.SamePath(srcAbs, dstAbs) {
		return nil, &models.ValidationError{Reason: models.IdenticalPaths, Path: srcAbs}
	}
	if platform.IsAncestor(srcAbs, dstAbs) {
		return nil, &models.ValidationError{
			Reason: models.DestinationInsideSource,
			Path:   dstAbs,
			Detail: fmt.Sprintf("destination is inside %s", srcAbs),
		}
	}
	if platform.IsAncestor(dstAbs, srcAbs) {
		return nil, &models.ValidationError{
			Reason: models.SourceInsideDestination,
			Path:   srcAbs,
			Detail: fmt.Sprintf("source is inside %s; mirroring would delete it", dstAbs),
		}
	}

	return &models.MigrationPair{Source: srcAbs, Dest: dstAbs}, nil
}

// DepthExceeded reports whether the source depth trips the advisory
// threshold. Not fatal: the engine asks the operator to confirm.
func (v *Validator) DepthExceeded(pair *models.MigrationPair) bool {
	threshold := v.DepthWarnThreshold
	if threshold <= 0 {
		threshold = DefaultDepthWarnThreshold
	}
	return platform.Depth(pair.Source) > threshold
}
