package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildClassificationPrompt combines the job description and the resume
// text into a single classification request. The classifier is told to
// answer with exactly two labeled lines so the reply stays machine
// readable.
func (pb *PromptBuilder) BuildClassificationPrompt(jobDescription, resumeText string) string {
	return fmt.Sprintf(`You are a seasoned technical recruiter, having more than a decade of experience in sourcing, screening, and shortlisting candidates based on the job description.

Job Description:
%s

Resume:
%s

Classify the resume into one of the following categories: best, good, average, bad, or not fit.
Also give a matching score between 0 and 100.

Format:
Category: <category>
Score: <score>`,
		jobDescription, resumeText)
}
