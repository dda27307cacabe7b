package calendar

// FilterEvents applies the user configuration to a normalized event set.
// It is a pure function: the input slice is not mutated, surviving events
// keep their acquisition order, and applying it twice with the same config
// yields the same result.
//
// An event survives only if every rule passes:
//  1. its duration is at least MinEventDuration (boundary inclusive);
//  2. it is not an excluded all-day event;
//  3. its calendar is not deny-listed — this always applies and wins over
//     the allow-list when a calendar appears in both;
//  4. when the allow-list is non-empty, its calendar is a member.
func FilterEvents(events []Event, cfg Config) []Event {
	excluded := toSet(cfg.ExcludedCalendars)
	included := toSet(cfg.IncludedCalendars)

	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Duration() < cfg.MinEventDuration {
			continue
		}
		if ev.IsAllDay && !cfg.IncludeAllDayEvents {
			continue
		}
		if _, denied := excluded[ev.Calendar]; denied {
			continue
		}
		if len(included) > 0 {
			if _, allowed := included[ev.Calendar]; !allowed {
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
