package intent

const promptTemplate = `STRICTLY respond in this JSON format:
{
  "intent": "make_payment|check_balance|check_history",
  "parameters": {
    "name": "(string)",
    "amount": (number)
  },
  "clarification_message": "(string)"
}

Examples:
1. Command: "Send ₹500 to Ravi"
Response: {"intent":"make_payment","parameters":{"name":"Ravi","amount":500},"clarification_message":""}

2. Command: "Check balance"
Response: {"intent":"check_balance","parameters":{"name":"","amount":""},"clarification_message":""}

3. Command: "Wire money to colleague"
Response: {"intent":"make_payment","parameters":{"name":"colleague","amount":""},"clarification_message":"How much would you like to send to colleague?"}

Now process: `

// BuildPrompt embeds a transcript in the fixed instruction template.
func BuildPrompt(transcript string) string {
	return promptTemplate + transcript
}
