package valueobject

import "strings"

// Contact 访客联系方式值对象（不可变）
type Contact struct {
	name  string
	email string
	phone string
}

// NewContact 创建联系方式值对象，email 统一小写去空白
func NewContact(name, email, phone string) Contact {
	return Contact{
		name:  strings.TrimSpace(name),
		email: strings.ToLower(strings.TrimSpace(email)),
		phone: strings.TrimSpace(phone),
	}
}

// Name 返回姓名
func (c Contact) Name() string {
	return c.name
}

// Email 返回邮箱
func (c Contact) Email() string {
	return c.email
}

// Phone 返回电话
func (c Contact) Phone() string {
	return c.phone
}

// HasEmail 判断是否填写了邮箱
func (c Contact) HasEmail() bool {
	return c.email != ""
}

// Equals 值对象相等性比较
func (c Contact) Equals(other Contact) bool {
	return c.name == other.name && c.email == other.email && c.phone == other.phone
}
