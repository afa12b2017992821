package service

import "errors"

var (
	// ErrSquashChangeAfterDelete is returned when a change was recorded for a
	// resource after its deletion.
	ErrSquashChangeAfterDelete = errors.New("local change recorded after delete")
	// ErrSquashCreateNotFirst is returned when a create is not the first
	// change of a resource.
	ErrSquashCreateNotFirst = errors.New("local create is not the first change")
	// ErrSquashInvalidPayload is returned for a change whose payload cannot be
	// decoded or applied.
	ErrSquashInvalidPayload = errors.New("invalid local change payload")

	ErrUnsupportedFetchMode    = errors.New("unsupported fetch mode")
	ErrUnsupportedPatchMode    = errors.New("unsupported patch mode")
	ErrUnsupportedRequestMode  = errors.New("unsupported request mode")
	ErrUnsupportedCreateMethod = errors.New("unsupported create method")
	ErrUnsupportedPatchType    = errors.New("unsupported patch type")
	ErrInvalidBundleSize       = errors.New("bundle size requires transaction request mode")

	// ErrReferenceCycle is returned when created resources reference each
	// other and cannot be uploaded one by one.
	ErrReferenceCycle = errors.New("reference cycle between created resources")

	// ErrUnexpectedResponse is returned when an upload response does not
	// match the request it answers.
	ErrUnexpectedResponse = errors.New("unexpected upload response")
	// ErrUnexpectedDownload is returned for a download response that is
	// neither a resource nor a bundle the manager understands.
	ErrUnexpectedDownload = errors.New("unexpected download response")

	ErrUnknownConflictPolicy = errors.New("unknown conflict policy")
)
