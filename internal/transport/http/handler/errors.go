package handler

import "github.com/ErlanBelekov/user-api/internal/apierror"

const (
	categoryUser     = "user"
	categoryPassword = "password"
	categoryBody     = "body"
	categoryEmail    = "email"
)

var (
	msgInternalServer    = apierror.Text("Internal server error!", "Erro interno do servidor!")
	msgUserNotFound      = apierror.Text("User not found!", "Usuário não encontrado!")
	msgUsersNotFound     = apierror.Text("Users not found!", "Usuários não encontrados!")
	msgUserNotCreated    = apierror.Text("User not created!", "Usuário não criado!")
	msgInvalidEmail      = apierror.Text("Invalid e-mail!", "E-mail inválido!")
	msgUserAlreadyActive = apierror.Text("User already active!", "Usuário já está ativo!")
	msgWrongPassword     = apierror.Text("Wrong password!", "Senha incorreta!")
	msgPasswordTooLong   = apierror.Text("Password too long!", "Senha muito longa!")
	msgInvalidBody       = apierror.Text("Invalid request body!", "Corpo da requisição inválido!")
	msgEmailNotSent      = apierror.Text("E-mail not sent!", "E-mail não enviado!")
)
