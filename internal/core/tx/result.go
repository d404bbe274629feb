package tx

import "fmt"

// Result represents an operation result code
type Result int

// Operation result codes, organized by category: tes, tec, tef, tem
const (
	// tesSUCCESS (0)
	TesSUCCESS Result = 0

	// tec codes (100-199): state-machine, economic and arithmetic failures
	TecPLATFORM_PAUSED                Result = 100
	TecEVENT_ENDED                    Result = 101
	TecEVENT_NOT_RESOLVED             Result = 102
	TecEVENT_ALREADY_RESOLVED         Result = 103
	TecEVENT_CANCELLED                Result = 104
	TecEVENT_NOT_CANCELLED            Result = 105
	TecBETTING_NOT_CLOSED             Result = 106
	TecRESOLUTION_DEADLINE_PASSED     Result = 107
	TecINVALID_DEADLINE               Result = 108
	TecBET_ALREADY_PLACED             Result = 110
	TecNO_BET_FOUND                   Result = 111
	TecALREADY_CLAIMED                Result = 112
	TecALREADY_REFUNDED               Result = 113
	TecNOT_A_WINNER                   Result = 114
	TecNOT_A_LOSER                    Result = 115
	TecLOSS_ALREADY_RECORDED          Result = 116
	TecNO_WINNINGS                    Result = 117
	TecSLIPPAGE_EXCEEDED              Result = 120
	TecINSUFFICIENT_INITIAL_LIQUIDITY Result = 121
	TecEMPTY_POOL                     Result = 122
	TecINSUFFICIENT_LIQUIDITY         Result = 123
	TecINSUFFICIENT_FUNDS             Result = 124
	TecOVERFLOW                       Result = 130
	TecUNDERFLOW                      Result = 131
	TecNO_ENTRY                       Result = 140
	TecDUPLICATE                      Result = 141
	TecEVENT_ID_EXISTS                Result = 142
	TecLEGACY_SCHEMA                  Result = 143

	// tef codes (-199 to -100): authorization and internal failures
	TefFAILURE             Result = -199
	TefUNAUTHORIZED        Result = -198
	TefUNAUTHORIZED_ORACLE Result = -197
	TefBAD_SIGNATURE       Result = -196
	TefINTERNAL            Result = -195

	// tem codes (-299 to -200): malformed operations
	TemMALFORMED                   Result = -299
	TemINVALID_AMOUNT              Result = -298
	TemINVALID_TITLE               Result = -297
	TemINVALID_DESCRIPTION         Result = -296
	TemINVALID_RESOLUTION_DEADLINE Result = -295
	TemINVALID_FEE_BPS             Result = -294
	TemINVALID_SIDE                Result = -293
	TemINVALID_DIRECTION           Result = -292
	TemINVALID_OUTCOME             Result = -291
	TemUNKNOWN                     Result = -290
)

type resultInfo struct {
	token   string
	message string
}

var results = map[Result]resultInfo{
	TesSUCCESS: {"tesSUCCESS", "The operation was applied."},

	TecPLATFORM_PAUSED:                {"tecPLATFORM_PAUSED", "The platform is paused."},
	TecEVENT_ENDED:                    {"tecEVENT_ENDED", "Betting on this event has ended."},
	TecEVENT_NOT_RESOLVED:             {"tecEVENT_NOT_RESOLVED", "The event has not been resolved."},
	TecEVENT_ALREADY_RESOLVED:         {"tecEVENT_ALREADY_RESOLVED", "The event is already resolved."},
	TecEVENT_CANCELLED:                {"tecEVENT_CANCELLED", "The event was cancelled."},
	TecEVENT_NOT_CANCELLED:            {"tecEVENT_NOT_CANCELLED", "The event was not cancelled."},
	TecBETTING_NOT_CLOSED:             {"tecBETTING_NOT_CLOSED", "The event cannot be resolved before its deadline."},
	TecRESOLUTION_DEADLINE_PASSED:     {"tecRESOLUTION_DEADLINE_PASSED", "The resolution deadline has passed."},
	TecINVALID_DEADLINE:               {"tecINVALID_DEADLINE", "The deadline must be in the future."},
	TecBET_ALREADY_PLACED:             {"tecBET_ALREADY_PLACED", "A bet on this event already exists for the caller."},
	TecNO_BET_FOUND:                   {"tecNO_BET_FOUND", "No bet found for the caller."},
	TecALREADY_CLAIMED:                {"tecALREADY_CLAIMED", "Winnings were already claimed."},
	TecALREADY_REFUNDED:               {"tecALREADY_REFUNDED", "The bet was already refunded."},
	TecNOT_A_WINNER:                   {"tecNOT_A_WINNER", "The bet is not on the winning side."},
	TecNOT_A_LOSER:                    {"tecNOT_A_LOSER", "The bet is not on the losing side."},
	TecLOSS_ALREADY_RECORDED:          {"tecLOSS_ALREADY_RECORDED", "The loss was already recorded."},
	TecNO_WINNINGS:                    {"tecNO_WINNINGS", "The winning pool is empty."},
	TecSLIPPAGE_EXCEEDED:              {"tecSLIPPAGE_EXCEEDED", "The result is below the requested minimum."},
	TecINSUFFICIENT_INITIAL_LIQUIDITY: {"tecINSUFFICIENT_INITIAL_LIQUIDITY", "The first deposit must mint more than the minimum liquidity."},
	TecEMPTY_POOL:                     {"tecEMPTY_POOL", "The pool has no liquidity."},
	TecINSUFFICIENT_LIQUIDITY:         {"tecINSUFFICIENT_LIQUIDITY", "The pool cannot cover the output."},
	TecINSUFFICIENT_FUNDS:             {"tecINSUFFICIENT_FUNDS", "Insufficient token balance."},
	TecOVERFLOW:                       {"tecOVERFLOW", "Arithmetic overflow."},
	TecUNDERFLOW:                      {"tecUNDERFLOW", "Arithmetic underflow."},
	TecNO_ENTRY:                       {"tecNO_ENTRY", "A required ledger entry does not exist."},
	TecDUPLICATE:                      {"tecDUPLICATE", "The ledger entry already exists."},
	TecEVENT_ID_EXISTS:                {"tecEVENT_ID_EXISTS", "An event with this id already exists."},
	TecLEGACY_SCHEMA:                  {"tecLEGACY_SCHEMA", "The platform record must be upgraded first."},

	TefFAILURE:             {"tefFAILURE", "Failed to apply."},
	TefUNAUTHORIZED:        {"tefUNAUTHORIZED", "The caller is not the platform authority."},
	TefUNAUTHORIZED_ORACLE: {"tefUNAUTHORIZED_ORACLE", "The caller is not the platform oracle."},
	TefBAD_SIGNATURE:       {"tefBAD_SIGNATURE", "The signature is not valid for the operation."},
	TefINTERNAL:            {"tefINTERNAL", "Internal error."},

	TemMALFORMED:                   {"temMALFORMED", "The operation is ill-formed."},
	TemINVALID_AMOUNT:              {"temINVALID_AMOUNT", "Amounts must be positive."},
	TemINVALID_TITLE:               {"temINVALID_TITLE", "The title must be 1 to 128 bytes."},
	TemINVALID_DESCRIPTION:         {"temINVALID_DESCRIPTION", "The description must be 1 to 512 bytes."},
	TemINVALID_RESOLUTION_DEADLINE: {"temINVALID_RESOLUTION_DEADLINE", "The resolution deadline must follow the betting deadline."},
	TemINVALID_FEE_BPS:             {"temINVALID_FEE_BPS", "The fee must be at most 10000 basis points."},
	TemINVALID_SIDE:                {"temINVALID_SIDE", "Unknown side."},
	TemINVALID_DIRECTION:           {"temINVALID_DIRECTION", "Unknown swap direction."},
	TemINVALID_OUTCOME:             {"temINVALID_OUTCOME", "Unknown outcome."},
	TemUNKNOWN:                     {"temUNKNOWN", "Unknown operation type."},
}

// String returns the string representation of the result code
func (r Result) String() string {
	if info, ok := results[r]; ok {
		return info.token
	}
	return fmt.Sprintf("Unknown(%d)", int(r))
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	if info, ok := results[r]; ok {
		return info.message
	}
	return "Unknown result."
}

// ResultFromString parses a result token such as "tecEVENT_ENDED"
func ResultFromString(s string) (Result, bool) {
	for r, info := range results {
		if info.token == s {
			return r, true
		}
	}
	return 0, false
}

// IsSuccess returns true if the result indicates success
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// MarshalText implements encoding.TextMarshaler.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Result) UnmarshalText(text []byte) error {
	parsed, ok := ResultFromString(string(text))
	if !ok {
		return fmt.Errorf("unknown result %q", text)
	}
	*r = parsed
	return nil
}
