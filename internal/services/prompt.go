package services

import (
	"fmt"
	"strings"
)

// BuildCreationPrompt asks the provider for a complete form document. The
// worked example keeps weaker models anchored to the exact shape the
// validator expects.
func BuildCreationPrompt(description string) string {
	return fmt.Sprintf(`Create a form based on this description: %q

Generate a JSON object with these fields:
1. name: A short, descriptive name for the form
2. description: A brief description of the form's purpose
3. questions: An array of questions, where each question has:
   - text: The question text
   - fieldType: One of: RadioGroup, Select, Input, Textarea, Switch
   - fieldOptions: For RadioGroup and Select types, an array of {text, value} pairs. For other types, an empty array.

Important: Return ONLY the JSON object, without any additional text or markdown formatting.

Example format:
{
  "name": "Customer Feedback",
  "description": "Collect feedback about our service",
  "questions": [
    {
      "text": "How satisfied are you with our service?",
      "fieldType": "RadioGroup",
      "fieldOptions": [
        {"text": "Very Satisfied", "value": "very_satisfied"},
        {"text": "Satisfied", "value": "satisfied"},
        {"text": "Neutral", "value": "neutral"},
        {"text": "Dissatisfied", "value": "dissatisfied"}
      ]
    },
    {
      "text": "Any additional comments?",
      "fieldType": "Textarea",
      "fieldOptions": []
    }
  ]
}`, description)
}

// BuildAugmentPrompt asks for additional questions for an existing form.
// The existing question texts ride along so the provider avoids repeating
// them; the exclusion list is advisory only, a provider may still echo a
// known question back.
func BuildAugmentPrompt(description string, existingQuestions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create additional form questions based on this description: %q.\n", description)
	if len(existingQuestions) > 0 {
		b.WriteString("The form already contains these questions, do not repeat them:\n")
		for _, q := range existingQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	b.WriteString(`
Return ONLY a JSON object with a questions array, where each question has:
- text: The question text
- fieldType: One of: RadioGroup, Select, Input, Textarea, Switch
- fieldOptions: For RadioGroup and Select types, an array of {text, value} pairs. For other types, an empty array.`)
	return b.String()
}
