package service

import "fmt"

func welcomeEmailTemplate(appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Your account is ready.

Create your first habit and mark it done each day to start a streak:
%s

Best,
The %s Team`, appURL, appName)

	return subject, body
}

func accountDeletedEmailTemplate(appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`An administrator deleted your account. Your habits and their completion history have been removed.

If you think this was a mistake, reply to this email.

Best,
The %s Team`, appName)

	return subject, body
}
