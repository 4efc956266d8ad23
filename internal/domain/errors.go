package domain

// Not-found errors are typed so handlers can map them to 404 without
// string matching.

type ErrSubscriberNotFound struct {
	Message string
}

func (e *ErrSubscriberNotFound) Error() string {
	return e.Message
}

type ErrContactListNotFound struct {
	Message string
}

func (e *ErrContactListNotFound) Error() string {
	return e.Message
}

type ErrCampaignNotFound struct {
	Message string
}

func (e *ErrCampaignNotFound) Error() string {
	return e.Message
}

type ErrSequenceNotFound struct {
	Message string
}

func (e *ErrSequenceNotFound) Error() string {
	return e.Message
}

type ErrEnrollmentNotFound struct {
	Message string
}

func (e *ErrEnrollmentNotFound) Error() string {
	return e.Message
}

type ErrDeliveryLogNotFound struct {
	Message string
}

func (e *ErrDeliveryLogNotFound) Error() string {
	return e.Message
}

type ErrShortURLNotFound struct {
	Message string
}

func (e *ErrShortURLNotFound) Error() string {
	return e.Message
}

type ErrSessionNotFound struct {
	Message string
}

func (e *ErrSessionNotFound) Error() string {
	return e.Message
}

// ErrAlreadyEnrolled is returned by the strict enrollment API when the
// (subscriber, sequence) pair already exists.
type ErrAlreadyEnrolled struct {
	Message string
}

func (e *ErrAlreadyEnrolled) Error() string {
	return e.Message
}
