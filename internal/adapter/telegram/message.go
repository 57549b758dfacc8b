package telegram

import (
	"fmt"
	"strings"

	"github.com/polkiloo/safepick/internal/domain/model"
)

const timeLayout = "2006-01-02 15:04 MST"

// Format renders the text shown to the guardian.
func Format(n model.Notification) string {
	var b strings.Builder
	switch n.Kind {
	case model.NotificationOrderCreated:
		fmt.Fprintf(&b, "Withdrawal order created for %s.\n", n.ChildName)
		fmt.Fprintf(&b, "Picker: %s (%s), ID %s.\n", n.PickerName, n.Relationship, n.PickerCedula)
		fmt.Fprintf(&b, "One-time code: %s\n", n.Code)
		fmt.Fprintf(&b, "Valid until %s.", n.ExpiresAt.Format(timeLayout))
	case model.NotificationOrderCompleted:
		fmt.Fprintf(&b, "%s was picked up by %s (%s) at %s.",
			n.ChildName, n.PickerName, n.Relationship, n.OccurredAt.Format(timeLayout))
	case model.NotificationOrderCancelled:
		fmt.Fprintf(&b, "Withdrawal order for %s with picker %s was cancelled.", n.ChildName, n.PickerName)
	default:
		fmt.Fprintf(&b, "Order %s: %s", n.OrderID, n.Kind)
	}
	return b.String()
}
