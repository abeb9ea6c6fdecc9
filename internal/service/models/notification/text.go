package notification

import "fmt"

// PlacedText is the SMS sent when an order is placed.
func PlacedText(orderNumber string, totalCents int64) string {
	return fmt.Sprintf(
		"Order confirmed! Order #%s for LKR %s. Thank you for choosing DineEasy! Track your order status online.",
		orderNumber, formatAmount(totalCents),
	)
}

// StatusText is the SMS sent when an order enters the given status.
func StatusText(orderNumber, status string) string {
	switch status {
	case "preparing":
		return fmt.Sprintf("Your order #%s is now being prepared. Estimated time: 15-20 minutes. - DineEasy", orderNumber)
	case "ready":
		return fmt.Sprintf("Great news! Your order #%s is ready for pickup/serving. Thank you for your patience! - DineEasy", orderNumber)
	case "completed":
		return fmt.Sprintf("Order #%s completed. Thank you for dining with DineEasy! We hope to see you again soon.", orderNumber)
	default:
		return fmt.Sprintf("Order #%s status updated to: %s. - DineEasy", orderNumber, status)
	}
}

// PaymentText is the SMS sent when a payment is confirmed.
func PaymentText(orderNumber string, amountCents int64, paymentID string) string {
	return fmt.Sprintf(
		"Payment confirmed for order #%s. Amount: LKR %s. Payment ID: %s. Thank you! - DineEasy",
		orderNumber, formatAmount(amountCents), paymentID,
	)
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
