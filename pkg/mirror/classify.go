package mirror

import "github.com/okriens/mirrormate/pkg/models"

// Mirroring tools in the robocopy family return an additive exit code:
// bits 0-2 are informational (1 = files copied, 2 = extra files found,
// 4 = mismatched files), bit 3 and above signal real copy failures.
const (
	warningBit  = 0x4
	failureBits = ^0x7
)

// Classify buckets a mirroring exit code. Pure function so the policy is
// testable without invoking any real tool.
//
//	0-3  -> success (nothing beyond informational change bits)
//	4-7  -> warning (mismatches seen, copy still completed)
//	8+   -> failure (failure bit set, regardless of low bits)
//
// Negative codes (process killed before exiting) classify as failure.
func Classify(exitCode int) models.Classification {
	if exitCode < 0 || exitCode&failureBits != 0 {
		return models.ClassFailure
	}
	if exitCode&warningBit != 0 {
		return models.ClassWarning
	}
	return models.ClassSuccess
}
