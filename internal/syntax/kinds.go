package syntax

// Element type tags used on the wire.
const (
	TypeSyntax = "syntax"
	TypeToken  = "token"
)

// TokenASTType is the grammar name every token carries.
const TokenASTType = "SyntaxToken"

// Node kinds the policies and the indentation machine look at.
const (
	CompilationUnit             = "CompilationUnitSyntax"
	NamespaceDeclaration        = "NamespaceDeclarationSyntax"
	ClassDeclaration            = "ClassDeclarationSyntax"
	StructDeclaration           = "StructDeclarationSyntax"
	MethodDeclaration           = "MethodDeclarationSyntax"
	ConstructorDeclaration      = "ConstructorDeclarationSyntax"
	PropertyDeclaration         = "PropertyDeclarationSyntax"
	FieldDeclaration            = "FieldDeclarationSyntax"
	VariableDeclaration         = "VariableDeclarationSyntax"
	VariableDeclarator          = "VariableDeclaratorSyntax"
	ParameterList               = "ParameterListSyntax"
	Parameter                   = "ParameterSyntax"
	ArgumentList                = "ArgumentListSyntax"
	ParenthesizedLambda         = "ParenthesizedLambdaExpressionSyntax"
	AttributeList               = "AttributeListSyntax"
	CaseSwitchLabel             = "CaseSwitchLabelSyntax"
	CasePatternSwitchLabel      = "CasePatternSwitchLabelSyntax"
	DefaultSwitchLabel          = "DefaultSwitchLabelSyntax"
	InvocationExpression        = "InvocationExpressionSyntax"
	MemberAccessExpression      = "MemberAccessExpressionSyntax"
	ObjectCreationExpression    = "ObjectCreationExpressionSyntax"
	AssignmentExpression        = "AssignmentExpressionSyntax"
	EqualsValueClause           = "EqualsValueClauseSyntax"
	Block                       = "BlockSyntax"
	IdentifierName              = "IdentifierNameSyntax"
	PredefinedType              = "PredefinedTypeSyntax"
	LocalDeclarationStatement   = "LocalDeclarationStatementSyntax"
	ExpressionStatement         = "ExpressionStatementSyntax"
	SwitchStatement             = "SwitchStatementSyntax"
	SwitchSection               = "SwitchSectionSyntax"
	BaseList                    = "BaseListSyntax"
	ObjectInitializerExpression = "InitializerExpressionSyntax"
)

// Trivia kinds.
const (
	WhitespaceTrivia                     = "WhitespaceTrivia"
	EndOfLineTrivia                      = "EndOfLineTrivia"
	SingleLineCommentTrivia              = "SingleLineCommentTrivia"
	MultiLineCommentTrivia               = "MultiLineCommentTrivia"
	SingleLineDocumentationCommentTrivia = "SingleLineDocumentationCommentTrivia"
	MultiLineDocumentationCommentTrivia  = "MultiLineDocumentationCommentTrivia"
)

// IsSwitchLabel reports whether kind is a case or default label.
func IsSwitchLabel(kind string) bool {
	switch kind {
	case CaseSwitchLabel, CasePatternSwitchLabel, DefaultSwitchLabel:
		return true
	}
	return false
}
