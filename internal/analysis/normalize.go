package analysis

import (
	"strings"
	"unicode"
)

// DefaultSummary is substituted when the payload carries no usable
// summary text.
const DefaultSummary = "No summary available"

// fieldAliases maps each canonical field to the key spellings models
// actually produce. Keys are matched after foldKey, so case and
// separator variants ("key_decisions", "keyDecisions", "Key-Decisions")
// need no separate entries.
var fieldAliases = map[string][]string{
	"summary":          {"summary", "meetingsummary", "executivesummary", "overview"},
	"participants":     {"participants", "attendees", "speakers"},
	"decisions":        {"decisions", "keydecisions", "decisionsmade"},
	"actionitems":      {"actionitems", "actions", "tasks", "nextsteps"},
	"discussionpoints": {"discussionpoints", "keypoints", "topics", "discussion"},
}

var actionItemAliases = map[string][]string{
	"description": {"description", "task", "item", "text", "action"},
	"owner":       {"owner", "assignee", "assignedto", "responsible"},
	"duedate":     {"duedate", "due", "deadline"},
}

// Normalize forces a parsed payload into the canonical MeetingAnalysis
// shape. It never fails: absent or mis-shaped fields get documented
// defaults and non-string list entries are dropped. String entries are
// kept verbatim.
func Normalize(payload ParsedPayload) MeetingAnalysis {
	fields := resolveAliases(payload, fieldAliases)

	return MeetingAnalysis{
		Summary:          summaryField(fields["summary"]),
		Participants:     stringList(fields["participants"]),
		Decisions:        stringList(fields["decisions"]),
		ActionItems:      actionItems(fields["actionitems"]),
		DiscussionPoints: stringList(fields["discussionpoints"]),
	}
}

// resolveAliases folds payload keys and maps them onto canonical names.
// The first alias present wins.
func resolveAliases(payload map[string]any, aliases map[string][]string) map[string]any {
	byKey := make(map[string]any, len(payload))
	for k, v := range payload {
		byKey[foldKey(k)] = v
	}

	fields := make(map[string]any, len(aliases))
	for canonical, names := range aliases {
		for _, name := range names {
			if v, ok := byKey[name]; ok {
				fields[canonical] = v
				break
			}
		}
	}
	return fields
}

// foldKey lowercases a key and strips separators so alias lookup is
// case- and separator-insensitive.
func foldKey(k string) string {
	var b strings.Builder
	b.Grow(len(k))
	for _, r := range k {
		switch r {
		case '_', '-', ' ':
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func summaryField(v any) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return DefaultSummary
}

// stringList keeps plain-text entries verbatim and drops everything
// else. A field that is not a list at all yields an empty slice.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// actionItems accepts both object entries and the bare strings some
// models emit instead. Entries of any other shape are dropped.
func actionItems(v any) []ActionItem {
	items, ok := v.([]any)
	if !ok {
		return []ActionItem{}
	}
	out := make([]ActionItem, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case string:
			out = append(out, ActionItem{Description: it})
		case map[string]any:
			if ai, ok := actionItemFromMap(it); ok {
				out = append(out, ai)
			}
		}
	}
	return out
}

func actionItemFromMap(m map[string]any) (ActionItem, bool) {
	fields := resolveAliases(m, actionItemAliases)

	desc, ok := fields["description"].(string)
	if !ok || desc == "" {
		return ActionItem{}, false
	}

	ai := ActionItem{Description: desc}
	if owner, ok := fields["owner"].(string); ok && owner != "" {
		ai.Owner = &owner
	}
	if due, ok := fields["duedate"].(string); ok && due != "" {
		ai.DueDate = &due
	}
	return ai, true
}
