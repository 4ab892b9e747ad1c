package engine

import (
	"fmt"
	"strings"
)

// Fixed replies. Everything the engine says without the generator lives here.

const (
	LineWelcome = "Hello! Welcome to Mamma Mia's Pizza, Pasta & Drinks! " +
		"Please choose what you'd like from our interactive menu. " +
		"Once you're done, hit the 'Done with Order' button to proceed with your choices."

	LineSpecialRequests = "Wonderful! Now that we have all the details, do you have any special requests? " +
		"For example, dietary needs (e.g., vegan, halal, gluten-free) or modifications (e.g., extra cheese, no onions)?"

	LineApology = "I'm very sorry, but something went wrong on my end. Please try again shortly!"

	LineDidNotCatch = "Sorry, I didn't catch that. Could you try again?"

	lineMenuMissing = "Ah, no problem! It seems the interactive menu isn't visible. " +
		"Let me list the menu items for you while we get that sorted out.\n\n"

	// Sent to the generator in place of a bare menu request.
	genMenuRequested = "The user asked for the menu. Please provide a brief conversational confirmation that the menu is now displayed."

	historyRestarted = "Bot Restarted"
)

func lineMenuList(menuText string) string {
	return lineMenuMissing + menuText
}

func lineAskSize(item string, options []string) string {
	return fmt.Sprintf("Ah, bellissima! What size would you like for the %s? (Available: %s)",
		item, strings.Join(options, ", "))
}

func lineNextSize(size, item, next string, options []string) string {
	return fmt.Sprintf("Got it! A %s %s. And for the %s, what size would you like? (Available: %s)",
		strings.ToUpper(size), item, next, strings.Join(options, ", "))
}

func lineConfirmOrder(special, summary string, none bool) string {
	opener := "Okay, no special requests. Before we proceed, let me confirm your order:"
	if !none {
		opener = fmt.Sprintf("Okay, I've noted your request for '%s'. Before we proceed, let me confirm your order:", special)
	}
	return fmt.Sprintf("%s\n\n%s\n\nDoes everything look correct?", opener, summary)
}

func lineCarryOver(size, item, special string) string {
	what := item
	if size != "" {
		what = strings.ToUpper(size) + " " + item
	}
	return fmt.Sprintf("Alright! So that's one %s. We previously noted a special request for '%s'. "+
		"Would you like these requests to apply to this new item as well?", what, special)
}

func lineOrderComplete(name, summary, address, phone string) string {
	return fmt.Sprintf("Thank you for your order, %s!\n\n"+
		"Here is your full order summary:\n%s\n\n"+
		"**Delivery to:** %s\n**Phone:** %s\n\n"+
		"Your order is being prepared and will be delivered shortly. Enjoy your delicious meal!",
		name, summary, address, phone)
}
