// Package account exposes the account service over HTTP.
package account

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	accountsvc "github.com/amirasaad/banksaga/pkg/service/account"
	"github.com/amirasaad/banksaga/webapi/common"
)

// Routes registers HTTP routes for account operations.
//
// Routes:
//   - POST   /account               : Open a new account.
//   - POST   /account/:id/deposit   : Deposit funds into the account.
//   - POST   /account/:id/withdraw  : Withdraw funds from the account.
//   - GET    /account/:id/balance   : Retrieve the replayed account state.
func Routes(app *fiber.App, svc *accountsvc.Service) {
	app.Post("/account", CreateAccount(svc))
	app.Post("/account/:id/deposit", Deposit(svc))
	app.Post("/account/:id/withdraw", Withdraw(svc))
	app.Get("/account/:id/balance", GetBalance(svc))
}

// CreateAccount returns a Fiber handler that opens a new account with the
// requested overdraft limit and returns its id.
func CreateAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		id, err := svc.CreateAccount(c.UserContext(), input.OverdraftLimit)
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ErrorResponseJSON(c,
				common.ErrorToStatusCode(err), "Failed to create account", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created",
			fiber.Map{"id": id})
	}
}

// Deposit returns a Fiber handler that deposits an amount into the account.
func Deposit(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		if err := svc.Deposit(c.UserContext(), c.Params("id"), input.Amount); err != nil {
			log.Errorf("Failed to deposit: %v", err)
			return common.ErrorResponseJSON(c,
				common.ErrorToStatusCode(err), "Failed to deposit", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit accepted", nil)
	}
}

// Withdraw returns a Fiber handler that withdraws an amount from the
// account. A withdrawal exceeding the overdraft limit is accepted and
// silently changes nothing; the balance endpoint tells the real story.
func Withdraw(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		if err := svc.Withdraw(c.UserContext(), c.Params("id"), input.Amount); err != nil {
			log.Errorf("Failed to withdraw: %v", err)
			return common.ErrorResponseJSON(c,
				common.ErrorToStatusCode(err), "Failed to withdraw", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal accepted", nil)
	}
}

// GetBalance returns a Fiber handler that replays the account stream and
// returns the current state.
func GetBalance(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c,
				common.ErrorToStatusCode(err), "Failed to get account", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account", AccountResponse{
			ID:             a.ID,
			Balance:        a.Balance,
			OverdraftLimit: a.OverdraftLimit,
		})
	}
}
