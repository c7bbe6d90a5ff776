// Package dto はauthフィーチャーのHTTPトランスポート層のリクエスト検証を提供します。
//
// 各リクエスト型の検証ルールは宣言的なテーブルとして定義され、
// go-playground/validator で評価されます。
package dto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"account_backend/internal/api"
	"account_backend/internal/feature/auth/domain"
	"account_backend/internal/feature/auth/domain/entity"
)

var validate = newValidator()

// passwordMaxBytes はbcryptが扱えるパスワードの最大バイト数です。
const passwordMaxBytes = 72

func newValidator() *validator.Validate {
	v := validator.New()
	// max はルーン数で数えるため、バイト数の上限は独自タグで検証する
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

// maxBytes は文字列のバイト長がパラメータ以下であることを検証します。
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// fieldRule はJSONフィールド1つ分の検証ルールです。
// optional なフィールドは値が存在しない（nil）場合に検証をスキップします。
type fieldRule struct {
	field    string
	tag      string
	optional bool
	value    func() *string
}

// messages はvalidatorのタグごとの公開エラーメッセージです。
var messages = map[string]string{
	"required": "%s should not be empty",
	"email":    "%s must be an email",
	"max":      "%s is too long",
	"maxbytes": "%s is too long",
}

func check(rules []fieldRule) error {
	var problems []string
	for _, r := range rules {
		v := r.value()
		if v == nil {
			if r.optional {
				continue
			}
			empty := ""
			v = &empty
		}
		err := validate.Var(*v, r.tag)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			format, known := messages[verrs[0].Tag()]
			if !known {
				format = "%s is invalid"
			}
			problems = append(problems, fmt.Sprintf(format, r.field))
			continue
		}
		problems = append(problems, fmt.Sprintf("%s is invalid", r.field))
	}
	if len(problems) > 0 {
		return domain.Validation(strings.Join(problems, "; "))
	}
	return nil
}

func credentialRules(email, password *string) []fieldRule {
	return []fieldRule{
		{field: "email", tag: "required,email,max=255", value: func() *string { return email }},
		{field: "password", tag: "required,maxbytes=" + strconv.Itoa(passwordMaxBytes), value: func() *string { return password }},
	}
}

// ValidateSignup はサインアップのリクエストボディを検証します。
func ValidateSignup(req *api.SignupRequest) error {
	return check(credentialRules(&req.Email, &req.Password))
}

// ValidateSignin はサインインのリクエストボディを検証します。
func ValidateSignin(req *api.SigninRequest) error {
	return check(credentialRules(&req.Email, &req.Password))
}

// ValidateUpdateUser は更新リクエストを検証し、UserPatchに変換します。
func ValidateUpdateUser(req *api.UpdateUserRequest) (entity.UserPatch, error) {
	rules := []fieldRule{
		{field: "email", tag: "required,email,max=255", optional: true, value: func() *string { return req.Email }},
		{field: "firstName", tag: "max=255", optional: true, value: func() *string { return req.FirstName }},
		{field: "lastName", tag: "max=255", optional: true, value: func() *string { return req.LastName }},
	}
	if err := check(rules); err != nil {
		return entity.UserPatch{}, err
	}
	return entity.UserPatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, nil
}

// ToUserResponse はユーザーエンティティを公開用のレスポンスに変換します。パスワードハッシュは含めません。
func ToUserResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserResponses はユーザーの一覧を変換します。
func ToUserResponses(users []entity.User) []api.UserResponse {
	out := make([]api.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
