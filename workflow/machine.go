// Package workflow implements the selection-and-submission state machine
// behind multi-step list actions: distributing aid to a household,
// transferring individuals between centers, allocating relief with
// recommended quantities.
//
// A flow always has the same shape: search a shortlist and pick one target,
// toggle a subset of eligible items each with a bounded quantity, then
// submit everything as a single payload. The machine owns the invariants of
// that shape: a toggled-off item leaves no quantity residue, quantities
// stay within [1, maxAvailable], and submission is refused locally until a
// target and at least one item are chosen.
//
// Transitions are driven by typed events so every transition can be tested
// table-style, without simulating UI clicks:
//
//	m := workflow.New(
//	    func(h *Household) string { return h.ID },
//	    func(a *Allocation) string { return a.ID },
//	    func(a *Allocation) int { return a.Remaining },
//	    workflow.WithTargetText(func(h *Household) string { return h.HeadName }),
//	)
//	m.Dispatch(workflow.SearchChanged{Text: "rivera"})
//	m.Dispatch(workflow.TargetPicked[*Household]{Target: hh})
//	m.Dispatch(workflow.ItemToggled[*Allocation]{Item: alloc})
//	res, err := m.Submit(ctx, submitter)
//
// The only side effect in the whole machine is the single submission call;
// no other state performs I/O.
package workflow

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	listview "github.com/reliefops/go-listview"
)

// Phase is the machine's position in the flow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTargetSearching
	PhaseTargetSelected
	PhaseItemsSelecting
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

var phaseNames = map[Phase]string{
	PhaseIdle:            "idle",
	PhaseTargetSearching: "target-searching",
	PhaseTargetSelected:  "target-selected",
	PhaseItemsSelecting:  "items-selecting",
	PhaseSubmitting:      "submitting",
	PhaseSucceeded:       "succeeded",
	PhaseFailed:          "failed",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// DefaultShortlistLimit caps the live-filtered target shortlist, bounding
// render cost while typing.
const DefaultShortlistLimit = 5

// ValidationError is a local, synchronous refusal: the transition is
// blocked and no network call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Selection is the per-item selection entry. An entry existing at all means
// the item is selected; there are no deselected entries.
type Selection struct {
	Quantity int
}

// Event is a typed message consumed by Dispatch.
type Event interface {
	isEvent()
}

// SearchChanged updates the target search text.
type SearchChanged struct {
	Text string
}

// TargetPicked selects one target from the shortlist and clears the search.
type TargetPicked[T any] struct {
	Target T
}

// ItemToggled flips an item's selection. Toggling on initializes its
// quantity to 1; toggling off removes the entry entirely.
type ItemToggled[I any] struct {
	Item I
}

// QuantityEntered applies a raw quantity input to a selected item.
type QuantityEntered struct {
	ItemID string
	Raw    string
}

// Cleared resets the machine to idle.
type Cleared struct{}

func (SearchChanged) isEvent()   {}
func (TargetPicked[T]) isEvent() {}
func (ItemToggled[I]) isEvent()  {}
func (QuantityEntered) isEvent() {}
func (Cleared) isEvent()         {}

// PayloadItem is one selected item in a submission payload.
type PayloadItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Payload is the single submission a completed flow produces. Items are
// ordered by ID so identical selections always serialize identically.
type Payload struct {
	// Reference is a client-generated id for tracing a submission
	// through the backend.
	Reference string        `json:"reference"`
	TargetID  string        `json:"targetId"`
	Items     []PayloadItem `json:"items"`
}

// Option configures a Machine.
type Option[T, I any] func(*Machine[T, I])

// WithTargetText registers the extractor used to live-filter the target
// shortlist. Without it the shortlist is only capped, not filtered.
func WithTargetText[T, I any](extract func(T) string) Option[T, I] {
	return func(m *Machine[T, I]) {
		m.targetText = extract
	}
}

// WithShortlistLimit overrides the shortlist cap.
func WithShortlistLimit[T, I any](limit int) Option[T, I] {
	return func(m *Machine[T, I]) {
		if limit > 0 {
			m.shortlistLimit = limit
		}
	}
}

// WithGate installs a precondition for the items step. The gate is a pure
// function of externally supplied context (for example "no active declared
// incident"), re-evaluated on every item-step operation; while it returns
// an error, toggles, quantity edits, and submission are all refused with
// that error.
func WithGate[T, I any](gate func() error) Option[T, I] {
	return func(m *Machine[T, I]) {
		m.gate = gate
	}
}

// WithOnRefresh registers the callback signalled after a successful
// submission so the owning view can refresh its source list.
func WithOnRefresh[T, I any](fn func()) Option[T, I] {
	return func(m *Machine[T, I]) {
		m.onRefresh = fn
	}
}

// Machine is the selection/workflow state machine.
//
// Type parameters: T is the target type (household, individual), I is the
// selectable item type (allocation, individual). A Machine is owned by a
// single view instance and is not safe for concurrent use.
type Machine[T, I any] struct {
	targetID       func(T) string
	itemID         func(I) string
	maxAvailable   func(I) int
	targetText     func(T) string
	shortlistLimit int
	gate           func() error
	onRefresh      func()

	phase    Phase
	search   string
	target   *T
	selected map[string]Selection
	items    map[string]I
	message  string
}

// New creates an idle machine from the three required extractors: target
// identity, item identity, and the item's maximum selectable quantity.
func New[T, I any](
	targetID func(T) string,
	itemID func(I) string,
	maxAvailable func(I) int,
	opts ...Option[T, I],
) *Machine[T, I] {
	m := &Machine[T, I]{
		targetID:       targetID,
		itemID:         itemID,
		maxAvailable:   maxAvailable,
		shortlistLimit: DefaultShortlistLimit,
		selected:       make(map[string]Selection),
		items:          make(map[string]I),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Dispatch applies one typed event to the machine.
func (m *Machine[T, I]) Dispatch(ev Event) error {
	switch e := ev.(type) {
	case SearchChanged:
		m.SetSearch(e.Text)
		return nil
	case TargetPicked[T]:
		return m.PickTarget(e.Target)
	case ItemToggled[I]:
		return m.ToggleItem(e.Item)
	case QuantityEntered:
		return m.SetQuantity(e.ItemID, e.Raw)
	case Cleared:
		m.Reset()
		return nil
	default:
		return fmt.Errorf("workflow: unknown event %T", ev)
	}
}

// SetSearch updates the live target search text.
func (m *Machine[T, I]) SetSearch(text string) {
	m.search = text
	if m.phase == PhaseIdle && text != "" {
		m.phase = PhaseTargetSearching
	}
}

// Shortlist live-filters candidates against the search text and caps the
// result, bounding render cost while the user types.
func (m *Machine[T, I]) Shortlist(candidates []T) []T {
	term := strings.ToLower(m.search)

	out := make([]T, 0, m.shortlistLimit)
	for _, c := range candidates {
		if term != "" && m.targetText != nil &&
			!strings.Contains(strings.ToLower(m.targetText(c)), term) {
			continue
		}

		out = append(out, c)
		if len(out) == m.shortlistLimit {
			break
		}
	}

	return out
}

// PickTarget selects the target and clears the search text. Picking a new
// target discards any in-progress selection; picking is refused while a
// submission is in flight.
func (m *Machine[T, I]) PickTarget(target T) error {
	if m.phase == PhaseSubmitting {
		return &ValidationError{Reason: "cannot change target while submitting"}
	}

	m.target = &target
	m.search = ""
	m.message = ""
	m.selected = make(map[string]Selection)
	m.items = make(map[string]I)
	m.phase = PhaseTargetSelected

	return nil
}

// ToggleItem flips an item's selection. Toggling on initializes quantity to
// 1; toggling off deletes the entry entirely, never leaving a quantity
// residue.
func (m *Machine[T, I]) ToggleItem(item I) error {
	if err := m.itemStepAllowed(); err != nil {
		return err
	}

	id := m.itemID(item)

	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
		delete(m.items, id)
		if len(m.selected) == 0 {
			m.phase = PhaseTargetSelected
		}
		return nil
	}

	if m.maxAvailable(item) < 1 {
		return &ValidationError{Reason: "item has no available quantity"}
	}

	m.selected[id] = Selection{Quantity: 1}
	m.items[id] = item
	m.phase = PhaseItemsSelecting

	return nil
}

// SetQuantity applies a raw quantity input to a selected item. Non-numeric
// input and values below 1 are rejected with the state unchanged; values
// above the item's maximum are clamped to that maximum.
func (m *Machine[T, I]) SetQuantity(itemID, raw string) error {
	if err := m.itemStepAllowed(); err != nil {
		return err
	}

	entry, ok := m.selected[itemID]
	if !ok {
		return &ValidationError{Reason: "item is not selected"}
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return &ValidationError{Reason: "quantity must be a number"}
	}

	if n < 1 {
		return &ValidationError{Reason: "quantity must be at least 1"}
	}

	if max := m.maxAvailable(m.items[itemID]); n > max {
		n = max
	}

	entry.Quantity = n
	m.selected[itemID] = entry

	return nil
}

// Submit validates the flow and performs the single submission call.
//
// Local validation runs first: a chosen target and at least one selected
// item are required, and the gate (if any) must pass; refusals return a
// ValidationError and make no network call. On success all local state is
// cleared and the refresh callback fires; on failure every bit of selection
// state is preserved so the user can correct and resubmit, and the error
// message is kept for inline display.
func (m *Machine[T, I]) Submit(ctx context.Context, submitter listview.Submitter[Payload]) (*listview.SubmitResult, error) {
	if m.phase == PhaseSubmitting {
		return nil, &ValidationError{Reason: "submission already in progress"}
	}

	if m.target == nil {
		m.message = "select a target first"
		return nil, &ValidationError{Reason: m.message}
	}

	if len(m.selected) == 0 {
		m.message = "select at least one item"
		return nil, &ValidationError{Reason: m.message}
	}

	if m.gate != nil {
		if err := m.gate(); err != nil {
			m.message = err.Error()
			return nil, &ValidationError{Reason: m.message}
		}
	}

	payload := m.buildPayload()

	m.phase = PhaseSubmitting
	m.message = ""

	res, err := submitter.Submit(ctx, payload)
	if err != nil {
		m.phase = PhaseFailed
		m.message = err.Error()
		return nil, err
	}

	if !res.Success {
		m.phase = PhaseFailed
		m.message = res.Message
		return res, nil
	}

	m.clear()
	m.phase = PhaseSucceeded

	if m.onRefresh != nil {
		m.onRefresh()
	}

	return res, nil
}

// Reset returns the machine to idle, discarding all local state.
func (m *Machine[T, I]) Reset() {
	m.clear()
	m.phase = PhaseIdle
}

// Phase returns the machine's current phase.
func (m *Machine[T, I]) Phase() Phase { return m.phase }

// SearchText returns the live target search text.
func (m *Machine[T, I]) SearchText() string { return m.search }

// Target returns the chosen target, if any.
func (m *Machine[T, I]) Target() (T, bool) {
	if m.target == nil {
		var zero T
		return zero, false
	}
	return *m.target, true
}

// Message returns the inline validation or failure message, if any.
func (m *Machine[T, I]) Message() string { return m.message }

// Selected returns a copy of the selection map.
func (m *Machine[T, I]) Selected() map[string]Selection {
	out := make(map[string]Selection, len(m.selected))
	for id, sel := range m.selected {
		out[id] = sel
	}
	return out
}

// Quantity returns the selected quantity for an item, if it is selected.
func (m *Machine[T, I]) Quantity(itemID string) (int, bool) {
	sel, ok := m.selected[itemID]
	return sel.Quantity, ok
}

// itemStepAllowed enforces the item-step preconditions: a chosen target, no
// in-flight submission, and a passing gate. The gate is re-evaluated on
// every call so a context change takes effect immediately.
func (m *Machine[T, I]) itemStepAllowed() error {
	if m.phase == PhaseSubmitting {
		return &ValidationError{Reason: "cannot edit selection while submitting"}
	}

	if m.target == nil {
		return &ValidationError{Reason: "select a target first"}
	}

	if m.gate != nil {
		if err := m.gate(); err != nil {
			return &ValidationError{Reason: err.Error()}
		}
	}

	return nil
}

func (m *Machine[T, I]) buildPayload() Payload {
	items := make([]PayloadItem, 0, len(m.selected))
	for id, sel := range m.selected {
		items = append(items, PayloadItem{ID: id, Quantity: sel.Quantity})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return Payload{
		Reference: uuid.New().String(),
		TargetID:  m.targetID(*m.target),
		Items:     items,
	}
}

func (m *Machine[T, I]) clear() {
	m.target = nil
	m.search = ""
	m.message = ""
	m.selected = make(map[string]Selection)
	m.items = make(map[string]I)
}
