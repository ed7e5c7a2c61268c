// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger implements the session ledger rule: the single state
transition applied to a subject's progress whenever a study session is
recorded.

# The Rule

Apply takes the progress state before a session and the proposed session,
and produces the updated state plus the finalized session:

	after, session := ledger.Apply(before, input)

One call updates everything at once:

  - Streak: same calendar day leaves it unchanged, the next day extends it
    by one, any other gap (including out-of-order dates) resets it to 1.
    A subject with no recorded sessions starts at 1.
  - Longest streak: max of the previous longest and the new streak.
  - XP: the reward of the matching quest type, or 0 for unknown types.
  - Achievement tier: the most advanced tier whose streak requirement the
    new streak meets.
  - Totals: minutes and XP accumulate; the last study date advances.

# Purity

Apply is a total function of its inputs. It never fails, never reads the
clock, and performs no I/O; callers supply the session date explicitly and
persist the result themselves. The same rule runs optimistically on the
client and authoritatively on the server, so both must agree byte for byte
on the outcome.

# Day Arithmetic

Calendar-day deltas are the whole number of days between the UTC midnights
of two YYYY-MM-DD strings. No millisecond math, no time zones, no rounding.

# Quick-Add Pips

ApplyPip synthesizes a fixed-duration session (the subject's pip amount,
lowest-effort quest tier, sentinel notes) and feeds it through Apply:

	after, session := ledger.ApplyPip(before, date)

There is no separate pip algorithm.
*/
package ledger
