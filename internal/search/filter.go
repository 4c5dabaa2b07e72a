package search

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sling/backend/internal/models"
)

// Tag names a filter variant on the wire. The set is closed: decoding an
// unknown tag is an error, never a silent skip.
type Tag string

const (
	TagTypeIs                Tag = "TYPE_IS"
	TagStatusIs              Tag = "STATUS_IS"
	TagOwnerIs               Tag = "OWNER_IS"
	TagOwnerIDIs             Tag = "OWNER_ID_IS"
	TagAccountNameIs         Tag = "ACCOUNT_NAME_IS"
	TagTargetNameIs          Tag = "TARGET_NAME_IS"
	TagGameNameIs            Tag = "GAME_NAME_IS"
	TagIPIs                  Tag = "IP_IS"
	TagMachineIdentIs        Tag = "MACHINE_IDENT_IS"
	TagLanguageIs            Tag = "LANGUAGE_IS"
	TagSubjectMatches        Tag = "SUBJECT_MATCHES"
	TagChatMatches           Tag = "CHAT_MATCHES"
	TagNoteMatches           Tag = "NOTE_MATCHES"
	TagHasNote               Tag = "HAS_NOTE"
	TagFirstResponseMoreThan Tag = "FIRST_RESPONSE_IS_MORE_THAN"
	TagWaitingForPlayer      Tag = "WAITING_FOR_PLAYER"
	TagCreatedBetween        Tag = "CREATED_BETWEEN"
	TagUpdatedBetween        Tag = "UPDATED_BETWEEN"
)

// Filter is one predicate over event data. Each variant carries its own
// typed payload, so reading a payload through the wrong variant is a compile
// error rather than a runtime one.
type Filter interface {
	FilterTag() Tag
}

type TypeIs struct {
	Type models.EventType
}

type StatusIs struct {
	Status models.EventStatus
}

type OwnerIs struct {
	Owner string
}

// OwnerIDIs selects by numeric agent id. It must be resolved to an OwnerIs
// before translation; the translator rejects it.
type OwnerIDIs struct {
	OwnerID uint
}

type AccountNameIs struct {
	Name string
}

type TargetNameIs struct {
	Name string
}

type GameNameIs struct {
	Name string
}

type IPIs struct {
	IP string
}

type MachineIdentIs struct {
	Ident string
}

// LanguageIs with an empty Language matches events with no language at all,
// whether stored as NULL or as the empty string.
type LanguageIs struct {
	Language string
}

type SubjectMatches struct {
	Terms string
}

type ChatMatches struct {
	Terms string
}

type NoteMatches struct {
	Terms string
}

type HasNote struct{}

// FirstResponseMoreThan matches events whose first response took longer than
// Millis, counting events with no response yet as "longer than anything".
type FirstResponseMoreThan struct {
	Millis int64
}

type WaitingForPlayer struct {
	Waiting bool
}

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type CreatedBetween struct {
	Range TimeRange
}

type UpdatedBetween struct {
	Range TimeRange
}

func (TypeIs) FilterTag() Tag                { return TagTypeIs }
func (StatusIs) FilterTag() Tag              { return TagStatusIs }
func (OwnerIs) FilterTag() Tag               { return TagOwnerIs }
func (OwnerIDIs) FilterTag() Tag             { return TagOwnerIDIs }
func (AccountNameIs) FilterTag() Tag         { return TagAccountNameIs }
func (TargetNameIs) FilterTag() Tag          { return TagTargetNameIs }
func (GameNameIs) FilterTag() Tag            { return TagGameNameIs }
func (IPIs) FilterTag() Tag                  { return TagIPIs }
func (MachineIdentIs) FilterTag() Tag        { return TagMachineIdentIs }
func (LanguageIs) FilterTag() Tag            { return TagLanguageIs }
func (SubjectMatches) FilterTag() Tag        { return TagSubjectMatches }
func (ChatMatches) FilterTag() Tag           { return TagChatMatches }
func (NoteMatches) FilterTag() Tag           { return TagNoteMatches }
func (HasNote) FilterTag() Tag               { return TagHasNote }
func (FirstResponseMoreThan) FilterTag() Tag { return TagFirstResponseMoreThan }
func (WaitingForPlayer) FilterTag() Tag      { return TagWaitingForPlayer }
func (CreatedBetween) FilterTag() Tag        { return TagCreatedBetween }
func (UpdatedBetween) FilterTag() Tag        { return TagUpdatedBetween }

// filterEnvelope is the wire form shared by all variants. Unused fields are
// omitted per variant.
type filterEnvelope struct {
	Filter Tag        `json:"filter"`
	Value  string     `json:"value,omitempty"`
	Bool   *bool      `json:"bool,omitempty"`
	ID     *uint      `json:"id,omitempty"`
	Millis *int64     `json:"millis,omitempty"`
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
}

// MarshalFilter encodes a single filter into its wire envelope.
func MarshalFilter(f Filter) ([]byte, error) {
	env := filterEnvelope{Filter: f.FilterTag()}
	switch v := f.(type) {
	case TypeIs:
		env.Value = string(v.Type)
	case StatusIs:
		env.Value = string(v.Status)
	case OwnerIs:
		env.Value = v.Owner
	case OwnerIDIs:
		id := v.OwnerID
		env.ID = &id
	case AccountNameIs:
		env.Value = v.Name
	case TargetNameIs:
		env.Value = v.Name
	case GameNameIs:
		env.Value = v.Name
	case IPIs:
		env.Value = v.IP
	case MachineIdentIs:
		env.Value = v.Ident
	case LanguageIs:
		env.Value = v.Language
	case SubjectMatches:
		env.Value = v.Terms
	case ChatMatches:
		env.Value = v.Terms
	case NoteMatches:
		env.Value = v.Terms
	case HasNote:
		// tag only
	case FirstResponseMoreThan:
		ms := v.Millis
		env.Millis = &ms
	case WaitingForPlayer:
		b := v.Waiting
		env.Bool = &b
	case CreatedBetween:
		start, end := v.Range.Start, v.Range.End
		env.Start, env.End = &start, &end
	case UpdatedBetween:
		start, end := v.Range.Start, v.Range.End
		env.Start, env.End = &start, &end
	default:
		return nil, fmt.Errorf("search: unknown filter type %T", f)
	}
	return json.Marshal(env)
}

// UnmarshalFilter decodes a single wire envelope back into its variant.
func UnmarshalFilter(data []byte) (Filter, error) {
	var env filterEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Filter {
	case TagTypeIs:
		return TypeIs{Type: models.EventType(env.Value)}, nil
	case TagStatusIs:
		return StatusIs{Status: models.EventStatus(env.Value)}, nil
	case TagOwnerIs:
		return OwnerIs{Owner: env.Value}, nil
	case TagOwnerIDIs:
		if env.ID == nil {
			return nil, fmt.Errorf("search: %s requires an id", TagOwnerIDIs)
		}
		return OwnerIDIs{OwnerID: *env.ID}, nil
	case TagAccountNameIs:
		return AccountNameIs{Name: env.Value}, nil
	case TagTargetNameIs:
		return TargetNameIs{Name: env.Value}, nil
	case TagGameNameIs:
		return GameNameIs{Name: env.Value}, nil
	case TagIPIs:
		return IPIs{IP: env.Value}, nil
	case TagMachineIdentIs:
		return MachineIdentIs{Ident: env.Value}, nil
	case TagLanguageIs:
		return LanguageIs{Language: env.Value}, nil
	case TagSubjectMatches:
		return SubjectMatches{Terms: env.Value}, nil
	case TagChatMatches:
		return ChatMatches{Terms: env.Value}, nil
	case TagNoteMatches:
		return NoteMatches{Terms: env.Value}, nil
	case TagHasNote:
		return HasNote{}, nil
	case TagFirstResponseMoreThan:
		if env.Millis == nil {
			return nil, fmt.Errorf("search: %s requires millis", TagFirstResponseMoreThan)
		}
		return FirstResponseMoreThan{Millis: *env.Millis}, nil
	case TagWaitingForPlayer:
		if env.Bool == nil {
			return nil, fmt.Errorf("search: %s requires bool", TagWaitingForPlayer)
		}
		return WaitingForPlayer{Waiting: *env.Bool}, nil
	case TagCreatedBetween:
		if env.Start == nil || env.End == nil {
			return nil, fmt.Errorf("search: %s requires start and end", TagCreatedBetween)
		}
		return CreatedBetween{Range: TimeRange{Start: *env.Start, End: *env.End}}, nil
	case TagUpdatedBetween:
		if env.Start == nil || env.End == nil {
			return nil, fmt.Errorf("search: %s requires start and end", TagUpdatedBetween)
		}
		return UpdatedBetween{Range: TimeRange{Start: *env.Start, End: *env.End}}, nil
	default:
		return nil, fmt.Errorf("search: unknown filter tag %q", env.Filter)
	}
}
