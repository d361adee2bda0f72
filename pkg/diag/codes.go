package diag

// Code is a stable identifier of a diagnostic category.
type Code string

// Diagnostic codes.
const (
	// CodeParseFailure marks a file that could not be parsed and was passed through.
	CodeParseFailure Code = "parse-failure"
	// CodeNameCollision marks a method renamed because its name was taken.
	CodeNameCollision Code = "name-collision"
	// CodeAliasCollision marks a rename whose alias is itself taken.
	CodeAliasCollision Code = "alias-collision"
	// CodeUnresolvedReference marks a dynamic reference only partially rewritten.
	CodeUnresolvedReference Code = "unresolved-reference"
	// CodeReservedIdentifier marks a data field name the target framework reserves.
	CodeReservedIdentifier Code = "reserved-identifier"
	// CodePropMutation marks a setData write to a component property.
	CodePropMutation Code = "prop-mutation"
	// CodeUnsupportedAPI marks a platform API with no equivalent.
	CodeUnsupportedAPI Code = "unsupported-api"
	// CodeDroppedOption marks a registration option that has no equivalent.
	CodeDroppedOption Code = "dropped-option"
	// CodeDynamicOptions marks registration options that are not an object literal.
	CodeDynamicOptions Code = "dynamic-options"
	// CodeSplitObserver marks a multi-field observer split into several watchers.
	CodeSplitObserver Code = "split-observer"
	// CodeInferredField marks a data field declared from a setData call.
	CodeInferredField Code = "inferred-field"
	// CodeDuplicateOption marks a repeated option where the first one wins.
	CodeDuplicateOption Code = "duplicate-option"
	// CodeBundledModule marks a webpack bundle passed through unchanged.
	CodeBundledModule Code = "bundled-module"
	// CodeUnknownComponent marks a used component whose script is not a component.
	CodeUnknownComponent Code = "unknown-component"
	// CodeInternal marks an unexpected failure inside the converter.
	CodeInternal Code = "internal"
)

func (c Code) String() string {
	return string(c)
}
