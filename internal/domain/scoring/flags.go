package scoring

// Flag tags raised by dimension scoring. Exposed as plain strings in results
// so callers can render or persist them without importing this package.
const (
	FlagHighPostFrequency     = "HIGH_POST_FREQUENCY"
	FlagTemplateComments      = "TEMPLATE_COMMENTS"
	FlagShortComments         = "SHORT_COMMENTS"
	FlagNotClaimed            = "NOT_CLAIMED"
	FlagClaimsWithoutEvidence = "CLAIMS_WITHOUT_EVIDENCE"
	FlagRobotTiming           = "ROBOT_TIMING"
	FlagRegularTiming         = "REGULAR_TIMING"
	FlagDuplicateComments     = "DUPLICATE_COMMENTS"
	FlagNearDuplicateComments = "NEAR_DUPLICATE_COMMENTS"
	FlagCarpetBombing         = "CARPET_BOMBING"
	FlagPromotionalContent    = "PROMOTIONAL_CONTENT"
)
