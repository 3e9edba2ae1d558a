// Package auth implements credential management and session issuance for the
// storewise storefront: registration, login, a separate admin login path,
// profile retrieval, and password reset/change, backed by a Bun repository
// and exposed through a thin Fiber controller.
//
// Tokens:
//   - Tokens are HS256 JWTs signed over a bare subject with no expiry; they
//     stay valid until the signing secret rotates. There is no logout or
//     revocation flow, and none is planned for this surface.
//   - Admin login does not touch the users table. It compares the submitted
//     pair against two configured constants and signs the literal
//     email+password concatenation. Changing this payload shape would break
//     existing admin clients, so it stays as its own code path.
//
// Known-weak behaviors kept on purpose (wire-contract fidelity):
//   - ResetPassword is unauthenticated and requires no possession proof;
//     anyone who knows an account email can replace its password. Any real
//     deployment should front this with an emailed reset token.
//   - The registration existence check and insert are not atomic; uniqueness
//     under concurrent registration is only as strong as the store's own
//     email constraint.
package auth
