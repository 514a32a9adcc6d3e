package mail

import "html/template"

// Shared dark-theme wrapper matching the EchoHub frontend palette.
const (
	wrapperOpen = `<div style="font-family: 'Montserrat', Arial, sans-serif; line-height: 1.6; color: #8f8f8f; max-width: 600px; margin: 0 auto; padding: 20px; border-radius: 8px; background-color: #181818;">`
	footer      = `<hr style="border: none; border-top: 1px solid #606060; margin: 20px 0;">
<p style="font-size: 12px; color: #606060; text-align: center;">EchoHub Inc. | Your security is our priority.</p>
</div>`
)

var verificationTemplate = template.Must(template.New("verification").Parse(wrapperOpen + `
<h2 style="color: #584cda; text-align: center;">EchoHub - Account Verification</h2>
<p>Hi <strong style="color: #7168d6; font-weight: 600;">{{.Username}}</strong>,</p>
<p>Thanks for creating an EchoHub account! Before you get started we need to verify your account. Use the code below to complete verification:</p>
<div style="text-align: center; margin: 16px 0;">
    <p style="display: inline-block; padding: 10px 20px; font-size: 24px; font-weight: bold; color: #f2f2f2; background-color: #7168d6; border-radius: 5px; letter-spacing: 4px;">{{.Code}}</p>
</div>
<p>If you did not create this account, you can safely ignore this email.</p>
` + footer))

var verifiedTemplate = template.Must(template.New("verified").Parse(wrapperOpen + `
<h2 style="color: #584cda; text-align: center;">EchoHub - Account Verified</h2>
<p>Hi <strong style="color: #7168d6; font-weight: 600;">{{.Username}}</strong>,</p>
<p>Your account has been <strong style="color: #feb029;">verified</strong> successfully! You can now use all of EchoHub without restrictions.</p>
<div style="text-align: center; margin: 16px 0;">
    <a href="{{.AppURL}}" style="display: inline-block; padding: 10px 20px; color: #f2f2f2; background-color: #7168d6; border-radius: 5px; text-decoration: none; font-size: 14px; font-weight: 600;">Go to EchoHub</a>
</div>
` + footer))

var resetTemplate = template.Must(template.New("reset").Parse(wrapperOpen + `
<h2 style="color: #584cda; text-align: center;">EchoHub - Password Reset</h2>
<p>Hi <strong style="color: #7168d6; font-weight: 600;">{{.Username}}</strong>. We received a request to reset your password. If this was you, click the button below:</p>
<div style="text-align: center; margin: 16px 0;">
    <a href="{{.Link}}" style="display: inline-block; padding: 10px 20px; color: #f2f2f2; background-color: #7168d6; border: none; border-radius: 5px; text-decoration: none; font-size: 14px; font-weight: 600;">Reset Password</a>
</div>
<p>If you did not request a password reset, ignore this email. Your password stays safe.</p>
<p style="font-size: 14px; color: #feb029; font-weight: 700; text-align: center;">This link is valid for 24 hours. If it expires, request a new one.</p>
` + footer))

var changedTemplate = template.Must(template.New("changed").Parse(wrapperOpen + `
<h2 style="color: #584cda; text-align: center;">EchoHub - Password Changed</h2>
<p>Hi <strong style="color: #7168d6; font-weight: 600;">{{.Username}}</strong>. Your password has been changed successfully.</p>
<p>If you made this change, there is nothing else to do.</p>
<p style="color: #feb029; font-weight: 600;">If you did not request this change, contact our support immediately.</p>
` + footer))
