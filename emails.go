package tripshare

import (
	"fmt"
	"html"
)

const appName = "TripShare"

func composeVerificationCodeEmail(code string) (subject, body string) {
	subject = fmt.Sprintf("Your Verification Code - %s", appName)
	body = fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="font-size: 24px;">%s</h1>
    <h2>Verify Your Email</h2>
    <p>Thanks for sharing your travel itinerary! Here's your verification code:</p>
    <div style="border: 2px solid #3A86FF; border-radius: 8px; padding: 20px; margin: 30px 0; text-align: center;">
      <span style="font-size: 42px; font-weight: bold; letter-spacing: 8px; font-family: monospace;">%s</span>
    </div>
    <p>This code will expire in <strong>10 minutes</strong>.</p>
    <p>If you didn't request this code, you can safely ignore this email.</p>
  </body>
</html>`, appName, html.EscapeString(code))
	return subject, body
}

func composeMagicLinkEmail(link string) (subject, body string) {
	escaped := html.EscapeString(link)
	subject = fmt.Sprintf("Login to %s", appName)
	body = fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="font-size: 24px;">%s</h1>
    <h2>Welcome Back!</h2>
    <p>Click the button below to securely log in to your account:</p>
    <p style="text-align: center; margin: 35px 0;">
      <a href="%s" style="display: inline-block; background: #3A86FF; color: white; padding: 16px 40px; text-decoration: none; border-radius: 8px; font-weight: bold;">Log In to My Account</a>
    </p>
    <p>This link will expire in <strong>15 minutes</strong>.</p>
    <p>If you didn't request this link, you can safely ignore this email.</p>
    <p style="font-size: 11px; color: #999; word-break: break-all;">Or copy and paste this URL into your browser:<br>%s</p>
  </body>
</html>`, appName, escaped, escaped)
	return subject, body
}
